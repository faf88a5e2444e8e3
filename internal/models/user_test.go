package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIDSet_AddIsIdempotent(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	var s IDSet
	s = s.Add(a)
	s = s.Add(b)
	s = s.Add(a)

	require.Equal(t, IDSet{a, b}, s)
	require.True(t, s.Has(a))
	require.True(t, s.Has(b))
}

func TestIDSet_RemovePreservesOrder(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	s := IDSet{a, b, c}
	s = s.Remove(b)

	require.Equal(t, IDSet{a, c}, s)
	require.False(t, s.Has(b))

	// removing an absent member is a no-op
	s = s.Remove(b)
	require.Equal(t, IDSet{a, c}, s)
}

func TestIDSet_HasOnEmpty(t *testing.T) {
	var s IDSet
	require.False(t, s.Has(primitive.NewObjectID()))
	require.Empty(t, s.Remove(primitive.NewObjectID()))
}

func TestUser_BlocksOrBlockedBy(t *testing.T) {
	other := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	blocker := &User{BlockedUsers: IDSet{other}}
	require.True(t, blocker.BlocksOrBlockedBy(other))
	require.False(t, blocker.BlocksOrBlockedBy(stranger))

	blocked := &User{BlockedBy: IDSet{other}}
	require.True(t, blocked.BlocksOrBlockedBy(other))
}

func TestUser_BlockedEitherWay(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	u := &User{BlockedUsers: IDSet{a}, BlockedBy: IDSet{b}}
	require.ElementsMatch(t, []primitive.ObjectID{a, b}, u.BlockedEitherWay())

	empty := &User{}
	require.Empty(t, empty.BlockedEitherWay())
}

func TestUser_ToSummary(t *testing.T) {
	u := &User{
		ID:        primitive.NewObjectID(),
		Username:  "ada",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Followers: IDSet{primitive.NewObjectID(), primitive.NewObjectID()},
	}

	s := u.ToSummary()
	require.Equal(t, u.ID, s.ID)
	require.Equal(t, "ada", s.Username)
	require.Equal(t, 2, s.Followers)
}
