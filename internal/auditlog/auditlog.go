// Package auditlog keeps a private record of every submission, separate from
// the public post: submitter IP, coarse location, device id and the full
// uncensored content. Writes are best-effort and must never block or fail
// the public post flow.
package auditlog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// PostLog is the private log row for one submission
type PostLog struct {
	gorm.Model
	PostID         string `json:"post_id" gorm:"index"`
	IPAddress      string `json:"ip_address"`
	City           string `json:"city"`
	Region         string `json:"region"`
	Country        string `json:"country"`
	ISP            string `json:"isp"`
	DeviceID       string `json:"device_id" gorm:"index"`
	Username       string `json:"username"`
	FullContent    string `json:"full_content" gorm:"type:text"` // uncensored, kept as legal evidence
	ContentSnippet string `json:"content_snippet"`
	UserAgent      string `json:"user_agent"`
}

// Recorder writes PostLog rows. A Recorder over a nil DB is disabled and
// silently drops every write, so callers need no nil checks of their own.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates a Recorder. db may be nil to disable audit logging.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Enabled reports whether the recorder has a backing database.
func (r *Recorder) Enabled() bool {
	return r != nil && r.db != nil
}

// Migrate creates the post_logs table.
func (r *Recorder) Migrate() error {
	if !r.Enabled() {
		return nil
	}
	if err := r.db.AutoMigrate(&PostLog{}); err != nil {
		return fmt.Errorf("migrate post logs: %w", err)
	}
	return nil
}

// Record inserts one log row.
func (r *Recorder) Record(ctx context.Context, entry *PostLog) error {
	if !r.Enabled() {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}
