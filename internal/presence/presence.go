// Package presence maintains the site-wide live visitor counter on Firebase
// Realtime Database. The counter is telemetry-adjacent: failures are logged
// and never surfaced to the visitor flow.
package presence

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/db"
)

const counterPath = "live_views"

// Counter increments and reads the global visitor count. A Counter over a
// nil client is disabled and reports zero.
type Counter struct {
	ref *db.Ref
}

// NewCounter creates a Counter. client may be nil to disable presence.
func NewCounter(client *db.Client) *Counter {
	c := &Counter{}
	if client != nil {
		c.ref = client.NewRef(counterPath)
	}
	return c
}

// Enabled reports whether the counter has a backing database.
func (c *Counter) Enabled() bool {
	return c != nil && c.ref != nil
}

// Enter transactionally increments the counter by one, so concurrent
// visitors never lose an increment.
func (c *Counter) Enter(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	err := c.ref.Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var current int64
		if err := node.Unmarshal(&current); err != nil {
			return nil, err
		}
		return current + 1, nil
	})
	if err != nil {
		return fmt.Errorf("increment live views: %w", err)
	}
	return nil
}

// Count reads the current counter value.
func (c *Counter) Count(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	var count int64
	if err := c.ref.Get(ctx, &count); err != nil {
		return 0, fmt.Errorf("read live views: %w", err)
	}
	return count, nil
}
