package models

import "time"

// Comment represents a comment on an issue. ParentID allows one level of
// threaded replies.
type Comment struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	IssueID   string    `bson:"issueId" json:"issueId"`
	AuthorID  *string   `bson:"authorId,omitempty" json:"authorId,omitempty"`
	Content   string    `bson:"content" json:"content"`
	ParentID  *string   `bson:"parentId,omitempty" json:"parentId,omitempty"`
	Likes     int       `bson:"likes" json:"likes"`
	FlagCount int       `bson:"flagCount" json:"flagCount"`
	IsHidden  bool      `bson:"isHidden" json:"isHidden"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
