// Package feed maintains the locally projected view of the subscribed post
// collection: the latest snapshot plus a search filter over content and
// author name. The filtered view is recomputed per query, not incrementally
// maintained.
package feed

import (
	"context"
	"strings"
	"sync"

	"github.com/Pargusz/izmirdestek/internal/media"
	"github.com/Pargusz/izmirdestek/internal/models"
	"github.com/Pargusz/izmirdestek/internal/store"
)

// Item is one feed entry: the post plus its media rendering hint.
type Item struct {
	models.Post
	Media *media.Media `json:"media,omitempty"`
}

// Projector holds the latest collection snapshot pushed by the store.
type Projector struct {
	mu       sync.RWMutex
	snapshot []models.Post
	sub      *store.Subscription
}

// NewProjector creates an empty projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Run subscribes to the store and keeps the snapshot current until ctx is
// cancelled or Stop is called.
func (p *Projector) Run(ctx context.Context, st store.Store) error {
	sub, err := st.Subscribe(ctx)
	if err != nil {
		return err
	}
	p.sub = sub

	go func() {
		for snap := range sub.Snapshots() {
			p.Replace(snap)
		}
	}()
	return nil
}

// Stop terminates the subscription.
func (p *Projector) Stop() {
	if p.sub != nil {
		p.sub.Unsubscribe()
	}
}

// Replace swaps in a new snapshot. Exposed for tests and for targets that
// drive the projector without a live subscription.
func (p *Projector) Replace(snapshot []models.Post) {
	p.mu.Lock()
	p.snapshot = snapshot
	p.mu.Unlock()
}

// Filter returns the posts whose content or username contains query,
// case-insensitively, keeping snapshot order. An empty query passes every
// post through.
func (p *Projector) Filter(query string) []Item {
	p.mu.RLock()
	snapshot := p.snapshot
	p.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	items := make([]Item, 0, len(snapshot))
	for _, post := range snapshot {
		if q != "" &&
			!strings.Contains(strings.ToLower(post.Content), q) &&
			!strings.Contains(strings.ToLower(post.Username), q) {
			continue
		}
		item := Item{Post: post}
		if post.MediaURL != "" {
			m := media.Classify(post.MediaURL)
			item.Media = &m
		}
		items = append(items, item)
	}
	return items
}
