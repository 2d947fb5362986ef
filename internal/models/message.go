package models

import "time"

// Message is a board post joined with its author's username.
type Message struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// MessageView is what a listing exposes; Author is empty for non-members.
type MessageView struct {
	ID        string    `json:"id"`
	Author    string    `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMessageRequest is the JSON body for POST /api/messages.
type CreateMessageRequest struct {
	Content string `json:"content"`
}

// Page bounds a listing.
type Page struct {
	Limit  int
	Offset int
}
