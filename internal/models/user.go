package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDSet is an ordered set of document IDs stored as a BSON array.
// Mutations keep insertion order and never produce duplicates.
type IDSet []primitive.ObjectID

// Has reports whether id is a member of the set.
func (s IDSet) Has(id primitive.ObjectID) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id to the set if it is not already present.
func (s IDSet) Add(id primitive.ObjectID) IDSet {
	if s.Has(id) {
		return s
	}
	return append(s, id)
}

// Remove deletes id from the set, preserving the order of the rest.
func (s IDSet) Remove(id primitive.ObjectID) IDSet {
	out := s[:0]
	for _, v := range s {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// User represents a user document stored in MongoDB. The four relationship
// sets are mirrored pairwise across documents: A in B.Following iff
// B in A.Followers, and A in B.BlockedUsers iff B in A.BlockedBy.
type User struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Email       string             `json:"email" bson:"email"`
	FirstName   string             `json:"first_name" bson:"first_name"`
	LastName    string             `json:"last_name" bson:"last_name"`
	Country     string             `json:"country,omitempty" bson:"country,omitempty"`
	Bio         string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Occupation  string             `json:"occupation,omitempty" bson:"occupation,omitempty"`
	UserPicture string             `json:"user_picture,omitempty" bson:"user_picture,omitempty"`
	Password    string             `json:"-" bson:"password"`

	Following    IDSet                `json:"following" bson:"following"`
	Followers    IDSet                `json:"followers" bson:"followers"`
	BlockedUsers IDSet                `json:"blocked_users" bson:"blocked_users"`
	BlockedBy    IDSet                `json:"blocked_by" bson:"blocked_by"`
	Bookmarks    []primitive.ObjectID `json:"bookmarks" bson:"bookmarks"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// BlocksOrBlockedBy reports whether a block relationship exists between the
// user and another user id, in either direction. Content authored by such a
// user is invisible to this one and vice versa.
func (u *User) BlocksOrBlockedBy(other primitive.ObjectID) bool {
	return u.BlockedUsers.Has(other) || u.BlockedBy.Has(other)
}

// BlockedEitherWay returns every user id with a block relationship to this
// user, for use in $nin feed filters.
func (u *User) BlockedEitherWay() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(u.BlockedUsers)+len(u.BlockedBy))
	ids = append(ids, u.BlockedUsers...)
	ids = append(ids, u.BlockedBy...)
	return ids
}

// ToSummary converts the user to the compact shape used in people listings.
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		UserPicture: u.UserPicture,
		Followers:   len(u.Followers),
	}
}

// UserSummary is the projection returned by followers/following/find-friends
// listings: display fields plus the follower count as a number.
type UserSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Username    string             `json:"username"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	UserPicture string             `json:"user_picture,omitempty"`
	Followers   int                `json:"followers"`
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string `json:"last_name" validate:"required,min=1,max=50"`
	Country   string `json:"country,omitempty" validate:"omitempty,max=60"`
	Password  string `json:"password" validate:"required,min=8"`
}

// SigninRequest defines the request body for local authentication
type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile edits. The
// current password must be confirmed before anything is changed.
type UpdateProfileRequest struct {
	FirstName       string `json:"first_name" validate:"required,min=1,max=50"`
	LastName        string `json:"last_name" validate:"required,min=1,max=50"`
	Country         string `json:"country,omitempty" validate:"omitempty,max=60"`
	Bio             string `json:"bio,omitempty" validate:"omitempty,max=300"`
	Occupation      string `json:"occupation,omitempty" validate:"omitempty,max=100"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UpdatePasswordRequest defines the request body for password changes
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
