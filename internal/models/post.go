package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. Author display
// fields are denormalized onto the post at creation time and refreshed when
// the author edits their profile or picture.
type Post struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"user_id" bson:"user_id"`
	Username    string             `json:"username" bson:"username"`
	FirstName   string             `json:"first_name" bson:"first_name"`
	LastName    string             `json:"last_name" bson:"last_name"`
	Country     string             `json:"country,omitempty" bson:"country,omitempty"`
	UserPicture string             `json:"user_picture,omitempty" bson:"user_picture,omitempty"`

	Description string `json:"description,omitempty" bson:"description,omitempty"`
	PostImage   string `json:"post_image,omitempty" bson:"post_image,omitempty"`

	// Likes is a presence map keyed by liker username: a username is a key
	// iff that user currently likes the post.
	Likes map[string]bool `json:"likes" bson:"likes"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// LikedBy reports whether username currently likes the post.
func (p *Post) LikedBy(username string) bool {
	return p.Likes[username]
}
