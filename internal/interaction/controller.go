// Package interaction orchestrates create, like, comment, view and delete
// operations against the post store. All moderation happens here, at write
// time: once censored and stored, content is never re-censored on read.
package interaction

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Pargusz/izmirdestek/internal/auditlog"
	"github.com/Pargusz/izmirdestek/internal/censor"
	"github.com/Pargusz/izmirdestek/internal/geoip"
	"github.com/Pargusz/izmirdestek/internal/identity"
	"github.com/Pargusz/izmirdestek/internal/media"
	"github.com/Pargusz/izmirdestek/internal/models"
	"github.com/Pargusz/izmirdestek/internal/store"
)

// MaxAttachmentBytes caps inline attachments. The store caps total record
// size near 1 MB and the attachment is embedded in the record, so the
// ceiling stays comfortably below that.
const MaxAttachmentBytes = 950000

var (
	ErrEmptyContent       = errors.New("content must not be empty")
	ErrAttachmentTooLarge = fmt.Errorf("attachment exceeds %d bytes", MaxAttachmentBytes)
	ErrMissingClientID    = errors.New("client id required")
)

// AttachmentInput carries the raw attachment bytes of a create request.
type AttachmentInput struct {
	Data     []byte
	MimeType string
	FileName string
}

// CreatePostInput is everything CreatePost needs: the authored fields plus
// the submission metadata that feeds the private audit log.
type CreatePostInput struct {
	Content    string
	Username   string
	MediaURL   string
	Attachment *AttachmentInput

	ClientID  string
	RemoteIP  string
	UserAgent string
}

// Controller runs the interaction state machine over a Store.
type Controller struct {
	store  store.Store
	viewed identity.ViewedStore
	audit  *auditlog.Recorder
	geo    *geoip.Client
}

// NewController wires a Controller. audit and geo may be nil when the
// private submission log is disabled.
func NewController(st store.Store, viewed identity.ViewedStore, audit *auditlog.Recorder, geo *geoip.Client) *Controller {
	return &Controller{store: st, viewed: viewed, audit: audit, geo: geo}
}

// CreatePost validates and normalizes the submission, persists it and
// returns the new record's id. Content and username pass the censor here;
// the media URL is canonicalized; an attachment is bounds-checked and
// embedded as a self-describing data URI.
func (c *Controller) CreatePost(ctx context.Context, in CreatePostInput) (string, error) {
	if strings.TrimSpace(in.Content) == "" {
		return "", ErrEmptyContent
	}

	post := &models.Post{
		Content:  censor.Censor(in.Content),
		Username: models.DefaultUsername,
		MediaURL: media.Canonicalize(in.MediaURL),
		Likes:    []string{},
		Comments: []models.Comment{},
	}
	if in.Username != "" {
		post.Username = censor.Censor(in.Username)
	}

	if in.Attachment != nil {
		if len(in.Attachment.Data) > MaxAttachmentBytes {
			return "", ErrAttachmentTooLarge
		}
		post.Attachment = &models.Attachment{
			DataURI: fmt.Sprintf("data:%s;base64,%s",
				in.Attachment.MimeType,
				base64.StdEncoding.EncodeToString(in.Attachment.Data)),
			MimeType: in.Attachment.MimeType,
			FileName: in.Attachment.FileName,
		}
	}

	id, err := c.store.Create(ctx, post)
	if err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}

	if c.audit.Enabled() {
		go c.recordSubmission(id, in)
	}
	return id, nil
}

// GetPost reads one post.
func (c *Controller) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return c.store.Get(ctx, postID)
}

// ToggleLike adds or removes clientID in the post's like set. The caller
// supplies its current membership belief; there is no read-check-write on
// the server side. Toggling twice returns the set to its original state.
func (c *Controller) ToggleLike(ctx context.Context, postID, clientID string, currentlyLiked bool) error {
	if clientID == "" {
		return ErrMissingClientID
	}
	if currentlyLiked {
		return c.store.ArrayRemove(ctx, postID, store.FieldLikes, clientID)
	}
	return c.store.ArrayUnion(ctx, postID, store.FieldLikes, clientID)
}

// AddComment appends a comment with a client-observed timestamp. Comment
// text is stored as typed; only post content and usernames pass the censor.
func (c *Controller) AddComment(ctx context.Context, postID, content, username string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if username == "" {
		username = models.DefaultUsername
	}
	comment := models.Comment{
		Content:   content,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	return c.store.ArrayUnion(ctx, postID, store.FieldComments, comment)
}

// IncrementView counts one view for the client+post pair, at most once over
// the client's lifetime. The whole operation is best-effort: failures are
// logged and swallowed so a broken counter never blocks presentation.
func (c *Controller) IncrementView(ctx context.Context, postID, clientID string) {
	if clientID == "" {
		return
	}
	seen, err := c.viewed.Seen(ctx, clientID, postID)
	if err != nil {
		log.Printf("view dedup check failed for %s: %v", postID, err)
		return
	}
	if seen {
		return
	}
	if err := c.store.Increment(ctx, postID, store.FieldViews, 1); err != nil {
		log.Printf("view increment failed for %s: %v", postID, err)
		return
	}
	if err := c.viewed.Mark(ctx, clientID, postID); err != nil {
		log.Printf("view marker write failed for %s: %v", postID, err)
	}
}

// DeletePost removes the post entirely. Irreversible, and deliberately
// without an ownership check: anonymous records have no owner to verify.
func (c *Controller) DeletePost(ctx context.Context, postID string) error {
	if err := c.store.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// recordSubmission writes the private audit row for a created post.
// Fire-and-forget from CreatePost.
func (c *Controller) recordSubmission(postID string, in CreatePostInput) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	loc := geoip.Location{IP: in.RemoteIP}
	if c.geo != nil {
		loc = c.geo.Lookup(ctx, in.RemoteIP)
	}

	username := in.Username
	if username == "" {
		username = models.DefaultUsername
	}

	entry := &auditlog.PostLog{
		PostID:         postID,
		IPAddress:      loc.IP,
		City:           loc.City,
		Region:         loc.Region,
		Country:        loc.Country,
		ISP:            loc.ISP,
		DeviceID:       in.ClientID,
		Username:       username,
		FullContent:    in.Content,
		ContentSnippet: snippet(in.Content),
		UserAgent:      in.UserAgent,
	}
	if err := c.audit.Record(ctx, entry); err != nil {
		log.Printf("audit log write failed for %s: %v", postID, err)
	}
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= 100 {
		return content
	}
	return string(runes[:100])
}
