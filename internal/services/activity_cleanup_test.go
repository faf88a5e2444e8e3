package services

import (
	"context"
	"testing"
	"time"

	"github.com/socio-irdl/socio/backend/internal/models"
	"github.com/socio-irdl/socio/backend/internal/repositories"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubUserRepo struct {
	users []models.User
}

func (r *stubUserRepo) CreateUser(context.Context, *models.User) error { return nil }
func (r *stubUserRepo) GetUserByID(context.Context, primitive.ObjectID) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}
func (r *stubUserRepo) GetUserByUsername(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}
func (r *stubUserRepo) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}
func (r *stubUserRepo) SaveUser(context.Context, *models.User) error { return nil }
func (r *stubUserRepo) GetUsers(context.Context) ([]models.User, error) {
	return r.users, nil
}
func (r *stubUserRepo) GetUsersByIDs(context.Context, []primitive.ObjectID) ([]models.User, error) {
	return nil, nil
}
func (r *stubUserRepo) FindUsersExcluding(context.Context, []primitive.ObjectID, int64) ([]models.User, error) {
	return nil, nil
}

type stubPostRepo struct {
	posts map[primitive.ObjectID]*models.Post
}

func (r *stubPostRepo) CreatePost(context.Context, *models.Post) error { return nil }
func (r *stubPostRepo) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	if p, ok := r.posts[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrPostNotFound
}
func (r *stubPostRepo) GetPostsByAuthor(context.Context, primitive.ObjectID, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (r *stubPostRepo) GetFeedPosts(context.Context, []primitive.ObjectID, int64, int64) ([]models.Post, error) {
	return nil, nil
}
func (r *stubPostRepo) GetPostsByIDs(context.Context, []primitive.ObjectID) ([]models.Post, error) {
	return nil, nil
}
func (r *stubPostRepo) UpdatePost(context.Context, primitive.ObjectID, string, string) (*models.Post, error) {
	return nil, repositories.ErrPostNotFound
}
func (r *stubPostRepo) UpdateLikes(context.Context, primitive.ObjectID, map[string]bool) (*models.Post, error) {
	return nil, repositories.ErrPostNotFound
}
func (r *stubPostRepo) RefreshAuthorSnapshot(context.Context, *models.User) error { return nil }
func (r *stubPostRepo) DeletePost(context.Context, primitive.ObjectID) error      { return nil }

type stubActivityRepo struct {
	activities []models.Activity
	nextID     uint
}

func (r *stubActivityRepo) CreateActivity(a *models.Activity) error {
	r.nextID++
	a.ID = r.nextID
	r.activities = append(r.activities, *a)
	return nil
}
func (r *stubActivityRepo) DeleteActivity(string, string, string) error { return nil }
func (r *stubActivityRepo) DeleteActivitiesByPost(string) error         { return nil }
func (r *stubActivityRepo) DeleteActivityByID(id uint) error {
	kept := r.activities[:0]
	for _, a := range r.activities {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	r.activities = kept
	return nil
}
func (r *stubActivityRepo) GetActivitiesByUser(userID string) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range r.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func likeActivity(userID string, postID primitive.ObjectID) *models.Activity {
	return &models.Activity{
		UserID:     userID,
		PostID:     postID.Hex(),
		ActionType: models.ActionLike,
		Timestamp:  time.Now(),
	}
}

func TestCleanupUser_KeepsLiveLikeRows(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "alice"}
	post := &models.Post{ID: primitive.NewObjectID(), Likes: map[string]bool{"alice": true}}

	posts := &stubPostRepo{posts: map[primitive.ObjectID]*models.Post{post.ID: post}}
	activities := &stubActivityRepo{}
	require.NoError(t, activities.CreateActivity(likeActivity(user.ID.Hex(), post.ID)))

	cleaner := NewActivityCleaner(&stubUserRepo{}, posts, activities)
	require.NoError(t, cleaner.CleanupUser(context.Background(), user))

	remaining, err := activities.GetActivitiesByUser(user.ID.Hex())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}

func TestCleanupUser_DropsRowForDeletedPost(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "alice"}

	posts := &stubPostRepo{posts: map[primitive.ObjectID]*models.Post{}}
	activities := &stubActivityRepo{}
	require.NoError(t, activities.CreateActivity(likeActivity(user.ID.Hex(), primitive.NewObjectID())))

	cleaner := NewActivityCleaner(&stubUserRepo{}, posts, activities)
	require.NoError(t, cleaner.CleanupUser(context.Background(), user))

	remaining, err := activities.GetActivitiesByUser(user.ID.Hex())
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestCleanupUser_DropsRowForRevertedLike(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "alice"}
	post := &models.Post{ID: primitive.NewObjectID(), Likes: map[string]bool{}}

	posts := &stubPostRepo{posts: map[primitive.ObjectID]*models.Post{post.ID: post}}
	activities := &stubActivityRepo{}
	require.NoError(t, activities.CreateActivity(likeActivity(user.ID.Hex(), post.ID)))

	cleaner := NewActivityCleaner(&stubUserRepo{}, posts, activities)
	require.NoError(t, cleaner.CleanupUser(context.Background(), user))

	remaining, err := activities.GetActivitiesByUser(user.ID.Hex())
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestCleanupUser_DropsDuplicateRows(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "alice"}
	post := &models.Post{ID: primitive.NewObjectID(), Likes: map[string]bool{"alice": true}}

	posts := &stubPostRepo{posts: map[primitive.ObjectID]*models.Post{post.ID: post}}
	activities := &stubActivityRepo{}
	require.NoError(t, activities.CreateActivity(likeActivity(user.ID.Hex(), post.ID)))
	require.NoError(t, activities.CreateActivity(likeActivity(user.ID.Hex(), post.ID)))

	cleaner := NewActivityCleaner(&stubUserRepo{}, posts, activities)
	require.NoError(t, cleaner.CleanupUser(context.Background(), user))

	// the earlier row survives, the duplicate goes
	remaining, err := activities.GetActivitiesByUser(user.ID.Hex())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.EqualValues(t, 1, remaining[0].ID)
}

func TestCleanupUser_IgnoresOtherUsersRows(t *testing.T) {
	alice := &models.User{ID: primitive.NewObjectID(), Username: "alice"}
	bobID := primitive.NewObjectID().Hex()

	posts := &stubPostRepo{posts: map[primitive.ObjectID]*models.Post{}}
	activities := &stubActivityRepo{}
	require.NoError(t, activities.CreateActivity(likeActivity(bobID, primitive.NewObjectID())))

	cleaner := NewActivityCleaner(&stubUserRepo{}, posts, activities)
	require.NoError(t, cleaner.CleanupUser(context.Background(), alice))

	remaining, err := activities.GetActivitiesByUser(bobID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}

func TestCleanupAll_SweepsEveryUser(t *testing.T) {
	alice := models.User{ID: primitive.NewObjectID(), Username: "alice"}
	bob := models.User{ID: primitive.NewObjectID(), Username: "bob"}

	posts := &stubPostRepo{posts: map[primitive.ObjectID]*models.Post{}}
	activities := &stubActivityRepo{}
	require.NoError(t, activities.CreateActivity(likeActivity(alice.ID.Hex(), primitive.NewObjectID())))
	require.NoError(t, activities.CreateActivity(likeActivity(bob.ID.Hex(), primitive.NewObjectID())))

	cleaner := NewActivityCleaner(&stubUserRepo{users: []models.User{alice, bob}}, posts, activities)
	cleaner.CleanupAll(context.Background())

	require.Empty(t, activities.activities)
}
