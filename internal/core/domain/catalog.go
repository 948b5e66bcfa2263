package domain

import "errors"

var ErrAuthorNotFound = errors.New("author not found")
var ErrBookNotFound = errors.New("book not found")
var ErrDuplicateAuthor = errors.New("author already exists")
var ErrUnauthenticated = errors.New("not authenticated")

// Author is a catalog author. Name is unique across the store; Born is
// optional (nil when the birth year is unknown).
type Author struct {
	ID   string `json:"id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
	Born *int   `json:"born,omitempty" bson:"born,omitempty"`
}

// Book is the core catalog record. Books are created once and never updated
// or deleted. AuthorID references an Author that exists at creation time;
// Author is denormalized onto the struct by the service layer for reads and
// event payloads.
type Book struct {
	ID        string   `json:"id" bson:"_id,omitempty"`
	Title     string   `json:"title" bson:"title"`
	Published int      `json:"published" bson:"published"`
	Genres    []string `json:"genres" bson:"genres"`
	AuthorID  string   `json:"author_id" bson:"author_id"`

	Author *Author `json:"author,omitempty" bson:"-"`
}
