package models

import "time"

// DefaultUsername is shown for authors who leave the name field empty.
const DefaultUsername = "Anonim"

// Comment is one entry of a post's append-only comment list.
type Comment struct {
	Content   string    `json:"content" firestore:"content" bson:"content"`
	Username  string    `json:"username" firestore:"username" bson:"username"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt" bson:"createdAt"`
}

// Attachment is a file embedded inline in the post record as a data URI.
// There is no blob-store collaborator: the record itself carries the bytes,
// which is why the size ceiling in the interaction layer exists.
type Attachment struct {
	DataURI  string `json:"data_uri" firestore:"dataUri" bson:"dataUri"`
	MimeType string `json:"mime_type" firestore:"mimeType" bson:"mimeType"`
	FileName string `json:"file_name" firestore:"fileName" bson:"fileName"`
}

// Post is the sole persisted entity: authored content plus mutable social
// counters. Content and username are censored before storage and never
// re-censored on read. Likes is a set of anonymous client ids, Comments only
// grows, Views never decreases. ID and CreatedAt are assigned by the store.
type Post struct {
	ID         string      `json:"id" firestore:"-" bson:"_id,omitempty"`
	Content    string      `json:"content" firestore:"content" bson:"content"`
	Username   string      `json:"username" firestore:"username" bson:"username"`
	Attachment *Attachment `json:"attachment,omitempty" firestore:"attachment,omitempty" bson:"attachment,omitempty"`
	MediaURL   string      `json:"media_url,omitempty" firestore:"mediaUrl,omitempty" bson:"mediaUrl,omitempty"`
	Likes      []string    `json:"likes" firestore:"likes" bson:"likes"`
	Comments   []Comment   `json:"comments" firestore:"comments" bson:"comments"`
	Views      int64       `json:"views" firestore:"views" bson:"views"`
	CreatedAt  time.Time   `json:"created_at" firestore:"createdAt,serverTimestamp" bson:"createdAt"`
}

// Normalize repairs a record decoded at the store boundary instead of
// trusting its shape at every call site: nil collections become empty,
// malformed comment entries are dropped and defaults are filled in.
func (p *Post) Normalize() {
	if p.Username == "" {
		p.Username = DefaultUsername
	}
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	} else {
		kept := p.Comments[:0]
		for _, c := range p.Comments {
			if c.Content == "" {
				continue
			}
			if c.Username == "" {
				c.Username = DefaultUsername
			}
			kept = append(kept, c)
		}
		p.Comments = kept
	}
	if p.Views < 0 {
		p.Views = 0
	}
}

// LikedBy reports whether clientID is in the post's like set.
func (p *Post) LikedBy(clientID string) bool {
	for _, id := range p.Likes {
		if id == clientID {
			return true
		}
	}
	return false
}
