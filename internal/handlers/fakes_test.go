package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/labstack/echo/v4"
	"github.com/socio-irdl/socio/backend/internal/models"
	"github.com/socio-irdl/socio/backend/internal/repositories"
	"github.com/socio-irdl/socio/backend/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes backing the handler tests. Reads hand out deep
// copies so a handler mutation only becomes visible once it is saved back.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	return append([]primitive.ObjectID{}, ids...)
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Following = models.IDSet(cloneIDs(u.Following))
	cp.Followers = models.IDSet(cloneIDs(u.Followers))
	cp.BlockedUsers = models.IDSet(cloneIDs(u.BlockedUsers))
	cp.BlockedBy = models.IDSet(cloneIDs(u.BlockedBy))
	cp.Bookmarks = cloneIDs(u.Bookmarks)
	return &cp
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Following == nil {
		user.Following = models.IDSet{}
	}
	if user.Followers == nil {
		user.Followers = models.IDSet{}
	}
	if user.BlockedUsers == nil {
		user.BlockedUsers = models.IDSet{}
	}
	if user.BlockedBy == nil {
		user.BlockedBy = models.IDSet{}
	}
	if user.Bookmarks == nil {
		user.Bookmarks = []primitive.ObjectID{}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) SaveUser(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) GetUsers(_ context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *cloneUser(u))
	}
	return users, nil
}

func (r *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, *cloneUser(u))
		}
	}
	return users, nil
}

func (r *fakeUserRepo) FindUsersExcluding(_ context.Context, exclude []primitive.ObjectID, limit int64) ([]models.User, error) {
	excluded := map[primitive.ObjectID]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}
	var users []models.User
	for _, u := range r.users {
		if !excluded[u.ID] {
			users = append(users, *cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	if limit > 0 && int64(len(users)) > limit {
		users = users[:limit]
	}
	return users, nil
}

type fakePostRepo struct {
	posts map[primitive.ObjectID]*models.Post
	seq   int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[primitive.ObjectID]*models.Post{}}
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Likes = map[string]bool{}
	for k, v := range p.Likes {
		cp.Likes[k] = v
	}
	return &cp
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	r.seq++
	post.CreatedAt = time.Unix(int64(r.seq), 0)
	if post.Likes == nil {
		post.Likes = map[string]bool{}
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	if p, ok := r.posts[id]; ok {
		return clonePost(p), nil
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) sorted() []models.Post {
	var posts []models.Post
	for _, p := range r.posts {
		posts = append(posts, *clonePost(p))
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts
}

func window(posts []models.Post, skip, limit int64) []models.Post {
	if skip >= int64(len(posts)) {
		return []models.Post{}
	}
	posts = posts[skip:]
	if limit > 0 && int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts
}

func (r *fakePostRepo) GetPostsByAuthor(_ context.Context, authorID primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	for _, p := range r.sorted() {
		if p.UserID == authorID {
			posts = append(posts, p)
		}
	}
	return window(posts, skip, limit), nil
}

func (r *fakePostRepo) GetFeedPosts(_ context.Context, excludeAuthors []primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	excluded := map[primitive.ObjectID]bool{}
	for _, id := range excludeAuthors {
		excluded[id] = true
	}
	var posts []models.Post
	for _, p := range r.sorted() {
		if !excluded[p.UserID] {
			posts = append(posts, p)
		}
	}
	return window(posts, skip, limit), nil
}

func (r *fakePostRepo) GetPostsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.posts[id]; ok {
			posts = append(posts, *clonePost(p))
		}
	}
	return posts, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id primitive.ObjectID, description, postImage string) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	p.Description = description
	p.PostImage = postImage
	p.UpdatedAt = time.Now()
	return clonePost(p), nil
}

func (r *fakePostRepo) UpdateLikes(_ context.Context, id primitive.ObjectID, likes map[string]bool) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	p.Likes = map[string]bool{}
	for k, v := range likes {
		p.Likes[k] = v
	}
	p.UpdatedAt = time.Now()
	return clonePost(p), nil
}

func (r *fakePostRepo) RefreshAuthorSnapshot(_ context.Context, author *models.User) error {
	for _, p := range r.posts {
		if p.UserID == author.ID {
			p.FirstName = author.FirstName
			p.LastName = author.LastName
			p.Country = author.Country
			p.UserPicture = author.UserPicture
		}
	}
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

type fakeActivityRepo struct {
	activities []models.Activity
	nextID     uint
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{nextID: 1}
}

func (r *fakeActivityRepo) CreateActivity(activity *models.Activity) error {
	activity.ID = r.nextID
	r.nextID++
	r.activities = append(r.activities, *activity)
	return nil
}

func (r *fakeActivityRepo) DeleteActivity(userID, postID, actionType string) error {
	kept := r.activities[:0]
	for _, a := range r.activities {
		if a.UserID == userID && a.PostID == postID && a.ActionType == actionType {
			continue
		}
		kept = append(kept, a)
	}
	r.activities = kept
	return nil
}

func (r *fakeActivityRepo) DeleteActivitiesByPost(postID string) error {
	kept := r.activities[:0]
	for _, a := range r.activities {
		if a.PostID != postID {
			kept = append(kept, a)
		}
	}
	r.activities = kept
	return nil
}

func (r *fakeActivityRepo) DeleteActivityByID(id uint) error {
	kept := r.activities[:0]
	for _, a := range r.activities {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	r.activities = kept
	return nil
}

func (r *fakeActivityRepo) GetActivitiesByUser(userID string) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range r.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
	nextID        uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	notification.ID = r.nextID
	r.nextID++
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) DeleteNotification(senderID, receiverID, actionType, postID string) error {
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.SenderID == senderID && n.ReceiverID == receiverID && n.ActionType == actionType && n.PostID == postID {
			continue
		}
		kept = append(kept, n)
	}
	r.notifications = kept
	return nil
}

func (r *fakeNotificationRepo) DeleteNotificationsByPost(postID string) error {
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.PostID != postID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func (r *fakeNotificationRepo) GetByReceiverID(receiverID string, page, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.ReceiverID == receiverID {
			out = append(out, n)
		}
	}
	total := int64(len(out))
	return paginate(out, page, limit), total, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(receiverID string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.ReceiverID == receiverID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID uint) error {
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(receiverID string) error {
	for i := range r.notifications {
		if r.notifications[i].ReceiverID == receiverID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

type fakeChatRepo struct {
	chats    map[primitive.ObjectID]*models.Chat
	messages []models.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: map[primitive.ObjectID]*models.Chat{}}
}

func (r *fakeChatRepo) CreateChat(_ context.Context, chat *models.Chat) error {
	chat.ID = primitive.NewObjectID()
	chat.CreatedAt = time.Now()
	cp := *chat
	cp.Members = append([]string{}, chat.Members...)
	r.chats[chat.ID] = &cp
	return nil
}

func (r *fakeChatRepo) GetChatByID(_ context.Context, id primitive.ObjectID) (*models.Chat, error) {
	if c, ok := r.chats[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repositories.ErrChatNotFound
}

func (r *fakeChatRepo) GetChatByMembers(_ context.Context, a, b string) (*models.Chat, error) {
	for _, c := range r.chats {
		if c.HasMember(a) && c.HasMember(b) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrChatNotFound
}

func (r *fakeChatRepo) GetChatsByMember(_ context.Context, username string) ([]models.Chat, error) {
	var out []models.Chat
	for _, c := range r.chats {
		if c.HasMember(username) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) SetAllowMessage(_ context.Context, id primitive.ObjectID, allow bool) error {
	c, ok := r.chats[id]
	if !ok {
		return repositories.ErrChatNotFound
	}
	c.AllowMessage = allow
	return nil
}

func (r *fakeChatRepo) CreateMessage(_ context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeChatRepo) GetMessagesByChat(_ context.Context, chatID primitive.ObjectID, skip, limit int64) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	if skip >= int64(len(out)) {
		return []models.Message{}, nil
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// testEnv wires the fakes and an Echo instance the way the router does
type testEnv struct {
	e             *echo.Echo
	users         *fakeUserRepo
	posts         *fakePostRepo
	activities    *fakeActivityRepo
	notifications *fakeNotificationRepo
	chats         *fakeChatRepo
}

func newTestEnv() *testEnv {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return &testEnv{
		e:             e,
		users:         newFakeUserRepo(),
		posts:         newFakePostRepo(),
		activities:    newFakeActivityRepo(),
		notifications: newFakeNotificationRepo(),
		chats:         newFakeChatRepo(),
	}
}

// newContext builds an Echo context carrying asUser's JWT claims
func (te *testEnv) newContext(method, target, body string, asUser *models.User) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := te.e.NewContext(req, rec)
	if asUser != nil {
		c.Set("user", &models.JwtCustomClaims{
			UserID:   asUser.ID.Hex(),
			Username: asUser.Username,
		})
	}
	return c, rec
}

// addUser creates and stores a user with the given username
func (te *testEnv) addUser(username string) *models.User {
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}
	if err := te.users.CreateUser(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

// addPost creates and stores a post authored by author
func (te *testEnv) addPost(author *models.User, description string) *models.Post {
	post := &models.Post{
		UserID:      author.ID,
		Username:    author.Username,
		FirstName:   author.FirstName,
		LastName:    author.LastName,
		Description: description,
		Likes:       map[string]bool{},
	}
	if err := te.posts.CreatePost(context.Background(), post); err != nil {
		panic(err)
	}
	return post
}

// reload fetches the latest stored state of a user
func (te *testEnv) reload(u *models.User) *models.User {
	fresh, err := te.users.GetUserByUsername(context.Background(), u.Username)
	if err != nil {
		panic(err)
	}
	return fresh
}
