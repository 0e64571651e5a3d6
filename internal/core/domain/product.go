package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")
var ErrForbidden = errors.New("access forbidden")

// Owner is the product's immutable association with the seller that created
// it. Embedded rather than referenced so listings render without a join.
type Owner struct {
	UserID   string `json:"id" bson:"user_id"`
	Username string `json:"username" bson:"username"`
}

// Product is the core catalog aggregate. Owner and ID never change after
// creation; Update may only touch Name and Price.
type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Owner       Owner     `json:"owner" bson:"owner"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// OwnedBy reports whether the product belongs to the given user.
func (p *Product) OwnedBy(userID string) bool {
	return p != nil && p.Owner.UserID == userID
}
