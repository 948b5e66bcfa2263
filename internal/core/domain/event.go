package domain

// TopicBookAdded is the event bus topic for new-book notifications.
const TopicBookAdded = "BOOK_ADDED"

// BookAddedEvent is published once per successful addBook mutation. It is
// ephemeral: never persisted, alive only while in flight on the bus. The
// Book carries its resolved Author so subscribers never need a follow-up
// fetch.
type BookAddedEvent struct {
	Book Book `json:"book"`
}
