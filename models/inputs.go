package models

// Client-suppliable creation payloads. System-assigned fields (ids, counters,
// hidden flags, timestamps) never appear here; validation rejects the whole
// payload if any field violates its constraint.

type InsertUser struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type InsertIssue struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"required,max=2000"`
	Category    string   `json:"category" binding:"required,oneof=garbage water roads traffic lighting parks other"`
	Status      string   `json:"status" binding:"omitempty,oneof=reported in-progress resolved flagged"`
	Latitude    *float64 `json:"latitude" binding:"required,latitude"`
	Longitude   *float64 `json:"longitude" binding:"required,longitude"`
	Address     *string  `json:"address,omitempty"`
	Images      []string `json:"images,omitempty"`
	ReporterID  *string  `json:"reporterId,omitempty"`
	IsAnonymous bool     `json:"isAnonymous,omitempty"`
}

type InsertComment struct {
	Content  string  `json:"content" binding:"required,max=1000"`
	AuthorID *string `json:"authorId,omitempty"`
	ParentID *string `json:"parentId,omitempty"`
}

type InsertVote struct {
	UserID string `json:"userId" binding:"required"`
	Type   string `json:"type" binding:"required,oneof=upvote downvote"`
}

type InsertFollow struct {
	UserID string `json:"userId" binding:"required"`
}
