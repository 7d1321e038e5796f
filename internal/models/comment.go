package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a single comment record. Replies are not nested: every
// comment is a flat arena entry keyed by id, and ParentID is a weak
// back-reference to the comment it answers (nil for top-level comments).
type Comment struct {
	ID     string `gorm:"primaryKey" json:"id"`
	PostID string `gorm:"not null;index" json:"post_id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	ParentID *string `gorm:"index" json:"parent_id,omitempty"`
	Text     string  `gorm:"type:text;not null" json:"text"`

	LikeCount int  `gorm:"default:0" json:"likes"`
	IsLiked   bool `gorm:"default:false" json:"is_liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommentArena indexes a post's comments by id with child lists hanging
// off parent ids, so reply threads render without nested owned arrays or
// deep copies on mutation.
type CommentArena struct {
	ByID     map[string]*Comment
	Children map[string][]*Comment // parent id -> replies, insertion order
	Roots    []*Comment            // top-level comments, insertion order
}

// NewCommentArena builds an arena from a flat comment list. Comments
// whose parent is missing from the list are treated as top-level rather
// than dropped.
func NewCommentArena(comments []Comment) *CommentArena {
	arena := &CommentArena{
		ByID:     make(map[string]*Comment, len(comments)),
		Children: make(map[string][]*Comment),
	}

	for i := range comments {
		c := &comments[i]
		arena.ByID[c.ID] = c
	}

	for i := range comments {
		c := &comments[i]
		if c.ParentID != nil {
			if _, ok := arena.ByID[*c.ParentID]; ok {
				arena.Children[*c.ParentID] = append(arena.Children[*c.ParentID], c)
				continue
			}
		}
		arena.Roots = append(arena.Roots, c)
	}

	return arena
}

// Replies returns the direct replies to a comment, in insertion order
func (a *CommentArena) Replies(id string) []*Comment {
	return a.Children[id]
}

// Thread returns a comment and all transitive replies in depth-first
// order starting from id. Unknown ids return nil.
func (a *CommentArena) Thread(id string) []*Comment {
	root, ok := a.ByID[id]
	if !ok {
		return nil
	}

	out := []*Comment{root}
	for _, child := range a.Children[id] {
		out = append(out, a.Thread(child.ID)...)
	}
	return out
}
