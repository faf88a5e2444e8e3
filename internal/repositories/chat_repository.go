package repositories

import (
	"context"
	"time"

	"github.com/socio-irdl/socio/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository defines the interface for chat and message operations
type ChatRepository interface {
	CreateChat(ctx context.Context, chat *models.Chat) error
	GetChatByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error)
	GetChatByMembers(ctx context.Context, a, b string) (*models.Chat, error)
	GetChatsByMember(ctx context.Context, username string) ([]models.Chat, error)
	SetAllowMessage(ctx context.Context, id primitive.ObjectID, allow bool) error
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessagesByChat(ctx context.Context, chatID primitive.ObjectID, skip, limit int64) ([]models.Message, error)
}

// MongoChatRepository implements ChatRepository for MongoDB
type MongoChatRepository struct {
	chats    *mongo.Collection
	messages *mongo.Collection
}

// NewMongoChatRepository creates a new MongoChatRepository
func NewMongoChatRepository(db *mongo.Database) *MongoChatRepository {
	return &MongoChatRepository{
		chats:    db.Collection("chats"),
		messages: db.Collection("messages"),
	}
}

// CreateChat creates a new chat document
func (r *MongoChatRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	chat.ID = primitive.NewObjectID()
	chat.CreatedAt = time.Now()
	chat.UpdatedAt = time.Now()
	_, err := r.chats.InsertOne(ctx, chat)
	return err
}

// GetChatByID retrieves a chat by id
func (r *MongoChatRepository) GetChatByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error) {
	var chat models.Chat
	err := r.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// GetChatByMembers retrieves the chat whose member pair is exactly {a, b}
func (r *MongoChatRepository) GetChatByMembers(ctx context.Context, a, b string) (*models.Chat, error) {
	var chat models.Chat
	err := r.chats.FindOne(ctx, bson.M{"members": bson.M{"$all": []string{a, b}}}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// GetChatsByMember retrieves every chat username participates in, most
// recently updated first
func (r *MongoChatRepository) GetChatsByMember(ctx context.Context, username string) ([]models.Chat, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.chats.Find(ctx, bson.M{"members": username}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err = cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// SetAllowMessage flips the messaging flag on a chat
func (r *MongoChatRepository) SetAllowMessage(ctx context.Context, id primitive.ObjectID, allow bool) error {
	update := bson.M{"$set": bson.M{"allow_message": allow, "updated_at": time.Now()}}
	res, err := r.chats.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

// CreateMessage appends a message to a chat and bumps the chat's updated_at
func (r *MongoChatRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	if _, err := r.messages.InsertOne(ctx, message); err != nil {
		return err
	}
	_, err := r.chats.UpdateOne(ctx, bson.M{"_id": message.ChatID},
		bson.M{"$set": bson.M{"updated_at": message.CreatedAt}})
	return err
}

// GetMessagesByChat retrieves messages of a chat, oldest first
func (r *MongoChatRepository) GetMessagesByChat(ctx context.Context, chatID primitive.ObjectID, skip, limit int64) ([]models.Message, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.messages.Find(ctx, bson.M{"chat_id": chatID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
