package provider

import (
	"context"

	"klsetracker/internal/quote"
)

// Source fetches the raw quote payload for a single ticker. Field
// absence inside the payload is expected and is not an error; errors
// mean the fetch itself failed (network, auth, malformed response).
type Source interface {
	Name() string
	Quote(ctx context.Context, ticker string) (quote.Raw, error)
}
