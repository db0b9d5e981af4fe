package interaction_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Pargusz/izmirdestek/internal/identity"
	"github.com/Pargusz/izmirdestek/internal/interaction"
	"github.com/Pargusz/izmirdestek/internal/models"
	"github.com/Pargusz/izmirdestek/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController() (*interaction.Controller, *store.MemoryStore) {
	st := store.NewMemoryStore()
	ctrl := interaction.NewController(st, identity.NewMemoryViewedStore(), nil, nil)
	return ctrl, st
}

func TestCreatePostCensorsAndDefaults(t *testing.T) {
	ctrl, st := newTestController()
	ctx := context.Background()

	id, err := ctrl.CreatePost(ctx, interaction.CreatePostInput{
		Content: "bu çok SİK bir şeydi",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	post, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bu çok S*K bir şeydi", post.Content)
	assert.Equal(t, "Anonim", post.Username)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)
	assert.Zero(t, post.Views)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestCreatePostCensorsUsername(t *testing.T) {
	ctrl, st := newTestController()
	ctx := context.Background()

	id, err := ctrl.CreatePost(ctx, interaction.CreatePostInput{
		Content:  "merhaba",
		Username: "fucking legend",
	})
	require.NoError(t, err)

	post, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "f*****g legend", post.Username)
}

func TestCreatePostCanonicalizesMediaURL(t *testing.T) {
	ctrl, st := newTestController()
	ctx := context.Background()

	id, err := ctrl.CreatePost(ctx, interaction.CreatePostInput{
		Content:  "video time",
		MediaURL: "youtube.com/watch?v=dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	post, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://youtube.com/watch?v=dQw4w9WgXcQ", post.MediaURL)
}

func TestCreatePostRejectsEmptyContent(t *testing.T) {
	ctrl, _ := newTestController()

	_, err := ctrl.CreatePost(context.Background(), interaction.CreatePostInput{Content: "   "})
	assert.ErrorIs(t, err, interaction.ErrEmptyContent)
}

func TestCreatePostAttachmentCeiling(t *testing.T) {
	ctrl, st := newTestController()
	ctx := context.Background()

	_, err := ctrl.CreatePost(ctx, interaction.CreatePostInput{
		Content: "too big",
		Attachment: &interaction.AttachmentInput{
			Data:     bytes.Repeat([]byte{0x1}, interaction.MaxAttachmentBytes+1),
			MimeType: "application/pdf",
			FileName: "big.pdf",
		},
	})
	assert.ErrorIs(t, err, interaction.ErrAttachmentTooLarge)

	id, err := ctrl.CreatePost(ctx, interaction.CreatePostInput{
		Content: "small enough",
		Attachment: &interaction.AttachmentInput{
			Data:     []byte("hello"),
			MimeType: "text/plain",
			FileName: "hi.txt",
		},
	})
	require.NoError(t, err)

	post, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, post.Attachment)
	assert.True(t, strings.HasPrefix(post.Attachment.DataURI, "data:text/plain;base64,"))
	assert.Equal(t, "hi.txt", post.Attachment.FileName)
	assert.Equal(t, "text/plain", post.Attachment.MimeType)
}

func TestToggleLikeIsAnInvolution(t *testing.T) {
	ctrl, st := newTestController()
	ctx := context.Background()

	id, err := ctrl.CreatePost(ctx, interaction.CreatePostInput{Content: "like me"})
	require.NoError(t, err)

	require.NoError(t, ctrl.ToggleLike(ctx, id, "u1", false))
	post, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, post.Likes)

	require.NoError(t, ctrl.ToggleLike(ctx, id, "u1", true))
	post, err = st.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, post.Likes)
}

func TestToggleLikeRequiresClientID(t *testing.T) {
	ctrl, _ := newTestController()
	err := ctrl.ToggleLike(context.Background(), "p1", "", false)
	assert.ErrorIs(t, err, interaction.ErrMissingClientID)
}

func TestAddCommentAppendsWithoutCensoring(t *testing.T) {
	ctrl, st := newTestController()
	ctx := context.Background()

	id, err := ctrl.CreatePost(ctx, interaction.CreatePostInput{Content: "talk to me"})
	require.NoError(t, err)

	// Comment text is stored verbatim, unlike post content.
	require.NoError(t, ctrl.AddComment(ctx, id, "fucking great", ""))
	require.NoError(t, ctrl.AddComment(ctx, id, "second", "ziya"))

	post, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, post.Comments, 2)
	assert.Equal(t, "fucking great", post.Comments[0].Content)
	assert.Equal(t, models.DefaultUsername, post.Comments[0].Username)
	assert.False(t, post.Comments[0].CreatedAt.IsZero())
	assert.Equal(t, "second", post.Comments[1].Content)
	assert.Equal(t, "ziya", post.Comments[1].Username)
}

func TestAddCommentRejectsEmptyContent(t *testing.T) {
	ctrl, _ := newTestController()
	err := ctrl.AddComment(context.Background(), "p1", "  ", "")
	assert.ErrorIs(t, err, interaction.ErrEmptyContent)
}

func TestIncrementViewCountsOncePerClient(t *testing.T) {
	ctrl, st := newTestController()
	ctx := context.Background()

	id, err := ctrl.CreatePost(ctx, interaction.CreatePostInput{Content: "watch me"})
	require.NoError(t, err)

	ctrl.IncrementView(ctx, id, "clientA")
	ctrl.IncrementView(ctx, id, "clientA")

	post, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.Views)

	// A different client counts separately.
	ctrl.IncrementView(ctx, id, "clientB")
	post, err = st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), post.Views)
}

func TestIncrementViewWithoutClientIDIsANoOp(t *testing.T) {
	ctrl, st := newTestController()
	ctx := context.Background()

	id, err := ctrl.CreatePost(ctx, interaction.CreatePostInput{Content: "anonymous view"})
	require.NoError(t, err)

	ctrl.IncrementView(ctx, id, "")
	post, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, post.Views)
}

func TestIncrementViewSwallowsStoreFailure(t *testing.T) {
	ctrl, _ := newTestController()
	// Unknown post: must not panic or surface an error.
	ctrl.IncrementView(context.Background(), "missing", "clientA")
}

func TestDeletePost(t *testing.T) {
	ctrl, st := newTestController()
	ctx := context.Background()

	id, err := ctrl.CreatePost(ctx, interaction.CreatePostInput{Content: "short lived"})
	require.NoError(t, err)

	require.NoError(t, ctrl.DeletePost(ctx, id))
	_, err = st.Get(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, ctrl.DeletePost(ctx, id), store.ErrNotFound)
}
