package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/socio-irdl/socio/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post document operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID primitive.ObjectID, skip, limit int64) ([]models.Post, error)
	GetFeedPosts(ctx context.Context, excludeAuthors []primitive.ObjectID, skip, limit int64) ([]models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, description, postImage string) (*models.Post, error)
	UpdateLikes(ctx context.Context, id primitive.ObjectID, likes map[string]bool) (*models.Post, error)
	RefreshAuthorSnapshot(ctx context.Context, author *models.User) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post document
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = map[string]bool{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by id
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByAuthor retrieves the posts of one author, newest first
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": authorID}, findOptions)
}

// GetFeedPosts retrieves feed posts newest first, excluding every author in
// excludeAuthors. The exclusion is applied in the query, before the
// skip/limit window, so filtered posts never occupy a page slot.
func (r *MongoPostRepository) GetFeedPosts(ctx context.Context, excludeAuthors []primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	filter := bson.M{}
	if len(excludeAuthors) > 0 {
		filter["user_id"] = bson.M{"$nin": excludeAuthors}
	}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, filter, findOptions)
}

// GetPostsByIDs resolves a list of post ids to documents, preserving the
// order of the input list. Ids without a matching document are skipped.
func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, fmt.Errorf("resolving post ids: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost replaces the body and image of a post and returns the updated
// document
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id primitive.ObjectID, description, postImage string) (*models.Post, error) {
	update := bson.M{"$set": bson.M{
		"description": description,
		"post_image":  postImage,
		"updated_at":  time.Now(),
	}}
	return r.findOneAndUpdate(ctx, id, update)
}

// UpdateLikes persists the likes map of a post and returns the updated
// document
func (r *MongoPostRepository) UpdateLikes(ctx context.Context, id primitive.ObjectID, likes map[string]bool) (*models.Post, error) {
	update := bson.M{"$set": bson.M{
		"likes":      likes,
		"updated_at": time.Now(),
	}}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *MongoPostRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// RefreshAuthorSnapshot rewrites the denormalized author fields on every
// post of the author after a profile or picture edit
func (r *MongoPostRepository) RefreshAuthorSnapshot(ctx context.Context, author *models.User) error {
	update := bson.M{"$set": bson.M{
		"first_name":   author.FirstName,
		"last_name":    author.LastName,
		"country":      author.Country,
		"user_picture": author.UserPicture,
	}}
	_, err := r.collection.UpdateMany(ctx, bson.M{"user_id": author.ID}, update)
	return err
}

// DeletePost deletes a post document by id
func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
