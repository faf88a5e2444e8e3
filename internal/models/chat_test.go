package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChat_Members(t *testing.T) {
	chat := &Chat{Members: []string{"alice", "bob"}}

	require.True(t, chat.HasMember("alice"))
	require.True(t, chat.HasMember("bob"))
	require.False(t, chat.HasMember("carol"))

	require.Equal(t, "bob", chat.OtherMember("alice"))
	require.Equal(t, "alice", chat.OtherMember("bob"))
}

func TestPost_LikedBy(t *testing.T) {
	post := &Post{Likes: map[string]bool{"alice": true}}
	require.True(t, post.LikedBy("alice"))
	require.False(t, post.LikedBy("bob"))

	empty := &Post{}
	require.False(t, empty.LikedBy("alice"))
}
