package graph

import (
	"errors"

	"github.com/librarium/catalog-api/internal/core/domain"
)

// resolverError carries an Apollo-style extensions map so clients can switch
// on error codes. graphql-go picks the extensions up via the Extensions
// method when rendering the response.
type resolverError struct {
	message    string
	extensions map[string]any
}

func (e *resolverError) Error() string {
	return e.message
}

func (e *resolverError) Extensions() map[string]any {
	return e.extensions
}

// translate maps domain errors onto GraphQL error codes. Unknown errors pass
// through untouched (surfaced verbatim, never swallowed).
func translate(err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return &resolverError{
			message:    "not authenticated",
			extensions: map[string]any{"code": "UNAUTHENTICATED"},
		}
	case errors.As(err, &ve):
		return &resolverError{
			message: ve.Message,
			extensions: map[string]any{
				"code":        "BAD_USER_INPUT",
				"invalidArgs": ve.InvalidArgs,
			},
		}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return &resolverError{
			message:    "wrong credentials",
			extensions: map[string]any{"code": "BAD_USER_INPUT"},
		}
	default:
		return err
	}
}
