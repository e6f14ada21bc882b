package model

import (
	"time"
)

// Post is a blog entry. Body is markdown; rendering is the client's problem.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Thumbnail  *string   `json:"thumbnail,omitempty"` // stored asset name, nil when none
	Featured   bool      `json:"featured"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
