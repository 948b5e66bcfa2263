package domain

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("wrong credentials")

// User models an account that may authenticate and add books.
// Accounts are created once via createUser and are immutable thereafter.
type User struct {
	ID             string `json:"id" bson:"_id,omitempty"`
	Username       string `json:"username" bson:"username"`
	FavouriteGenre string `json:"favourite_genre" bson:"favourite_genre"`
	PasswordHash   string `json:"-" bson:"password_hash"`
}
