// Package graph exposes the catalog over GraphQL: schema, resolvers, and the
// per-client subscription delivery channel bridging the event bus to the
// bookAdded stream.
package graph

import graphql "github.com/graph-gophers/graphql-go"

const schemaString = `
	schema {
		query: Query
		mutation: Mutation
		subscription: Subscription
	}

	type Book {
		title: String!
		published: Int!
		author: Author!
		id: ID!
		genres: [String!]!
	}

	type Author {
		name: String!
		bookCount: Int!
		born: Int
		id: ID!
	}

	type User {
		username: String!
		favouriteGenre: String!
		id: ID!
	}

	type Token {
		value: String!
	}

	type Query {
		bookCount: Int!
		authorCount: Int!
		allBooks(author: String, genre: String): [Book!]!
		allAuthors: [Author!]!
		me: User
	}

	type Mutation {
		addBook(title: String!, published: Int!, author: String!, genres: [String!]!): Book
		editAuthor(name: String!, setBornTo: Int!): Author
		createUser(username: String!, favouriteGenre: String!, password: String!): User
		login(username: String!, password: String!): Token
	}

	type Subscription {
		bookAdded: Book!
	}
`

// NewSchema parses the schema against the resolver. Panics on mismatch,
// which is a programming error caught at startup.
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(schemaString, r)
}
