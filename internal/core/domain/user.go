package domain

import (
	"errors"
	"time"
)

const (
	RoleSeller = "SELLER"
	RoleBuyer  = "BUYER"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrUnauthenticated = errors.New("not authenticated")

// User models an authenticated actor in the system. Username is unique,
// case-sensitive, and immutable after creation.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// IsSeller reports whether the user may create and manage products.
func (u *User) IsSeller() bool {
	return u != nil && u.Role == RoleSeller
}

// Identity is the request-scoped authenticated principal, derived fresh on
// every request by the identity middleware. Never cached across requests.
type Identity struct {
	UserID   string
	Username string
	Role     string
}
