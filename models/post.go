package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Post carries a name/avatar snapshot taken from the author at write time.
// The snapshot is intentionally never refreshed when the user changes.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	Name      string             `bson:"name" json:"name"`
	Avatar    string             `bson:"avatar" json:"avatar"`
	Likes     []Like             `bson:"likes" json:"likes"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

type Like struct {
	UserID primitive.ObjectID `bson:"user" json:"user"`
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	Name      string             `bson:"name" json:"name"`
	Avatar    string             `bson:"avatar" json:"avatar"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
