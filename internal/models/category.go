package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Category struct {
	ID    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Icon  string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Color string             `json:"color,omitempty" bson:"color,omitempty"`
}
