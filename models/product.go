package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a catalog entry stored in the "products" collection.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description" bson:"description"`
	ImageURL    string             `json:"image_url" bson:"image_url"`
}

// ProductFields is the full set of mutable product fields. Updates replace all of them.
type ProductFields struct {
	Name        string  `bson:"name"`
	Price       float64 `bson:"price"`
	Description string  `bson:"description"`
	ImageURL    string  `bson:"image_url"`
}
