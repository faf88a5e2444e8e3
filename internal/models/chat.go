package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat represents a direct-message channel between two users (MongoDB).
// Members holds the two usernames. AllowMessage is flipped off when either
// member blocks the other and back on when the block is lifted.
type Chat struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Members      []string           `json:"members" bson:"members"`
	AllowMessage bool               `json:"allow_message" bson:"allow_message"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasMember reports whether username is one of the chat members.
func (c *Chat) HasMember(username string) bool {
	for _, m := range c.Members {
		if m == username {
			return true
		}
	}
	return false
}

// OtherMember returns the member that is not username.
func (c *Chat) OtherMember(username string) string {
	for _, m := range c.Members {
		if m != username {
			return m
		}
	}
	return ""
}

// Message is a single chat message (MongoDB)
type Message struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ChatID    primitive.ObjectID `json:"chat_id" bson:"chat_id"`
	Sender    string             `json:"sender" bson:"sender"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for sending a chat message
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}
