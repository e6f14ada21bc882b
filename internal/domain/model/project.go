package model

import (
	"time"
)

// Project is a portfolio entry: a short summary plus an optional external
// link, with the same markdown body and thumbnail handling as Post.
type Project struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Link       *string   `json:"link,omitempty"`
	Body       string    `json:"body"`
	Thumbnail  *string   `json:"thumbnail,omitempty"`
	Featured   bool      `json:"featured"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
