package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a feed entry. Name and avatar are snapshots of the authoring
// user taken at creation time; they are not re-synced afterwards.
// Likes and comments are owned sub-documents, newest-first.
type Post struct {
	ID       string    `json:"id"`
	UserID   uuid.UUID `json:"user"`
	Text     string    `json:"text"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
	Date     time.Time `json:"date"`
}

// Like marks a single user's like. A post never carries two likes from
// the same user.
type Like struct {
	UserID uuid.UUID `json:"user"`
}

// Comment is a post comment with a denormalized author snapshot.
type Comment struct {
	ID     string    `json:"id"`
	UserID uuid.UUID `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// LikedBy reports whether the given user already appears in the like
// sequence.
func (p *Post) LikedBy(userID uuid.UUID) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// FindComment locates a comment by its id, never by owner.
func (p *Post) FindComment(id string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}
