package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Pargusz/izmirdestek/internal/feed"
	"github.com/Pargusz/izmirdestek/internal/identity"
	"github.com/Pargusz/izmirdestek/internal/interaction"
	"github.com/Pargusz/izmirdestek/internal/middleware"
	"github.com/Pargusz/izmirdestek/internal/models"
	"github.com/Pargusz/izmirdestek/internal/store"
	"github.com/Pargusz/izmirdestek/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	echo      *echo.Echo
	store     *store.MemoryStore
	projector *feed.Projector
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemoryStore()
	controller := interaction.NewController(st, identity.NewMemoryViewedStore(), nil, nil)
	projector := feed.NewProjector()

	e := echo.New()
	e.Validator = validators.NewValidator()
	api := e.Group("/api/v1", middleware.ClientID())

	NewPostHandler(controller, projector).RegisterPostRoutes(api)
	NewLikeHandler(controller).RegisterLikeRoutes(api)
	NewCommentHandler(controller).RegisterCommentRoutes(api)
	NewViewHandler(controller).RegisterViewRoutes(api)

	return &testEnv{echo: e, store: st, projector: projector}
}

func (env *testEnv) request(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func TestCreatePostEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/v1/posts",
		`{"content":"bu çok SİK bir şeydi"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])

	post, err := env.store.Get(context.Background(), resp["id"])
	require.NoError(t, err)
	assert.Equal(t, "bu çok S*K bir şeydi", post.Content)
	assert.Equal(t, "Anonim", post.Username)
}

func TestCreatePostRejectsMissingContent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/v1/posts", `{"username":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePostRejectsOversizedAttachment(t *testing.T) {
	env := newTestEnv(t)

	big := base64.StdEncoding.EncodeToString(make([]byte, interaction.MaxAttachmentBytes+1))
	body, err := json.Marshal(map[string]interface{}{
		"content": "big file",
		"attachment": map[string]string{
			"data":      big,
			"mime_type": "application/pdf",
			"file_name": "big.pdf",
		},
	})
	require.NoError(t, err)

	rec := env.request(http.MethodPost, "/api/v1/posts", string(body), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestGetPostEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/v1/posts", `{"content":"merhaba"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = env.request(http.MethodGet, "/api/v1/posts/"+created["id"], "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(http.MethodGet, "/api/v1/posts/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFeedEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/v1/posts", `{"content":"aradığın mesaj","username":"Deniz"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The handler serves from the projector; feed its snapshot directly so
	// the test does not depend on subscription timing.
	post, err := env.store.Get(context.Background(), extractID(t, rec))
	require.NoError(t, err)
	env.projector.Replace([]models.Post{*post})

	rec = env.request(http.MethodGet, "/api/v1/posts?q=deniz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []feed.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "aradığın mesaj", items[0].Content)

	rec = env.request(http.MethodGet, "/api/v1/posts?q=eşleşmeyen", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Empty(t, items)
}

func TestToggleLikeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/v1/posts", `{"content":"beğen"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := extractID(t, rec)

	// No client id header: rejected.
	rec = env.request(http.MethodPost, "/api/v1/posts/"+id+"/likes/toggle", `{"liked":false}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	headers := map[string]string{"X-Client-ID": "client-1"}
	rec = env.request(http.MethodPost, "/api/v1/posts/"+id+"/likes/toggle", `{"liked":false}`, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	post, err := env.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"client-1"}, post.Likes)

	rec = env.request(http.MethodPost, "/api/v1/posts/"+id+"/likes/toggle", `{"liked":true}`, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	post, err = env.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, post.Likes)
}

func TestCreateCommentEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/v1/posts", `{"content":"yorumla"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := extractID(t, rec)

	rec = env.request(http.MethodPost, "/api/v1/posts/"+id+"/comments", `{"content":"ilk yorum"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	post, err := env.store.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "ilk yorum", post.Comments[0].Content)
	assert.Equal(t, "Anonim", post.Comments[0].Username)

	rec = env.request(http.MethodPost, "/api/v1/posts/missing/comments", `{"content":"boşluğa"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordViewEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/v1/posts", `{"content":"izlenen"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := extractID(t, rec)

	headers := map[string]string{"X-Client-ID": "client-1"}
	rec = env.request(http.MethodPost, "/api/v1/posts/"+id+"/views", "", headers)
	require.Equal(t, http.StatusAccepted, rec.Code)
	rec = env.request(http.MethodPost, "/api/v1/posts/"+id+"/views", "", headers)
	require.Equal(t, http.StatusAccepted, rec.Code)

	post, err := env.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.Views)

	rec = env.request(http.MethodPost, "/api/v1/posts/"+id+"/views", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePostEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/v1/posts", `{"content":"silinecek"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := extractID(t, rec)

	rec = env.request(http.MethodDelete, "/api/v1/posts/"+id, "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.request(http.MethodDelete, "/api/v1/posts/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func extractID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])
	return resp["id"]
}
