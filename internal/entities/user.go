package entities

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an account that owns books. The password hash is stored but never
// serialized to clients.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password,omitempty" json:"-"`
}
