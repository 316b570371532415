package models

import "time"

// Comment is a post comment. ParentCommentID is set on replies; replies
// never nest deeper than one level.
type Comment struct {
	ID              string    `json:"_id,omitempty"`
	User            UserRef   `json:"user"`
	Text            string    `json:"text"`
	ParentCommentID string    `json:"parentCommentId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// IsReply reports whether the comment answers another comment
func (c Comment) IsReply() bool {
	return c.ParentCommentID != ""
}

// Post mirrors the backend post record
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    User      `json:"author"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	Tags      []string  `json:"tags,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Images    []string  `json:"images,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LikedBy reports whether userID is in the likes list
func (p Post) LikedBy(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// TopLevelComments returns comments that are not replies, in server order
func (p Post) TopLevelComments() []Comment {
	var out []Comment
	for _, c := range p.Comments {
		if !c.IsReply() {
			out = append(out, c)
		}
	}
	return out
}

// Replies returns the replies to commentID, in server order
func (p Post) Replies(commentID string) []Comment {
	var out []Comment
	for _, c := range p.Comments {
		if c.ParentCommentID == commentID {
			out = append(out, c)
		}
	}
	return out
}

// FindComment returns the comment with the given id
func (p Post) FindComment(commentID string) (Comment, bool) {
	for _, c := range p.Comments {
		if c.ID == commentID {
			return c, true
		}
	}
	return Comment{}, false
}

// ImageURLs returns the gallery images, falling back to the single imageUrl
func (p Post) ImageURLs() []string {
	if len(p.Images) > 0 {
		return p.Images
	}
	if p.ImageURL != "" {
		return []string{p.ImageURL}
	}
	return nil
}
