package repository

import (
	"context"
	"time"

	"github.com/berkay1532/Wisper-Server/internal/domain"
	"github.com/berkay1532/Wisper-Server/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type chatAuditLogRepository struct {
	db *mongo.Database
}

func NewChatAuditLogRepository(database *mongo.Database) domain.ChatAuditRepository {
	return &chatAuditLogRepository{
		db: database,
	}
}

func (r *chatAuditLogRepository) Log(ctx context.Context, log *domain.ChatAuditLog) error {
	collection := r.db.Collection(db.ChatAuditLogsCollection)

	_, err := collection.InsertOne(ctx, log)
	return err
}

func (r *chatAuditLogRepository) GetByChatID(ctx context.Context, chatID string, limit int) ([]domain.ChatAuditLog, error) {
	collection := r.db.Collection(db.ChatAuditLogsCollection)

	filter := bson.M{"chat_id": chatID}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.ChatAuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *chatAuditLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) error {
	collection := r.db.Collection(db.ChatAuditLogsCollection)

	filter := bson.M{
		"timestamp": bson.M{
			"$lt": before,
		},
	}

	_, err := collection.DeleteMany(ctx, filter)
	return err
}

func (r *chatAuditLogRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.ChatAuditLogsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "chat_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(7776000), // 90 days TTL
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
