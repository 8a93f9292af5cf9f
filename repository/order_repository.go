package repository

import (
	"context"
	"errors"

	"github.com/ayoogunade/AyoZon/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrderRepository appends orders. Orders are never updated.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) (string, error)
}

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{collection: db.Collection("orders")}
}

func (r *mongoOrderRepository) Insert(ctx context.Context, order *models.Order) (string, error) {
	order.ID = primitive.NilObjectID
	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	order.ID = oid
	return oid.Hex(), nil
}
