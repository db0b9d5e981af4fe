package models

// AttachmentUpload carries a base64-encoded file in a create request.
type AttachmentUpload struct {
	Data     string `json:"data" validate:"required"`
	MimeType string `json:"mime_type" validate:"required"`
	FileName string `json:"file_name" validate:"required,max=255"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content    string            `json:"content" validate:"required,min=1"`
	Username   string            `json:"username,omitempty" validate:"omitempty,max=60"`
	MediaURL   string            `json:"media_url,omitempty"`
	Attachment *AttachmentUpload `json:"attachment,omitempty"`
}

// ToggleLikeRequest defines the request body for toggling a like. Liked is
// the caller's belief about its current membership in the like set.
type ToggleLikeRequest struct {
	Liked bool `json:"liked"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=500"`
	Username string `json:"username,omitempty" validate:"omitempty,max=60"`
}
