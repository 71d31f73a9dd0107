package translate

import (
	"context"
	"fmt"
)

// ProviderID tags the two provider slots.
type ProviderID int

const (
	Primary ProviderID = iota
	Fallback
)

func (id ProviderID) String() string {
	switch id {
	case Primary:
		return "primary"
	case Fallback:
		return "fallback"
	default:
		return fmt.Sprintf("provider(%d)", int(id))
	}
}

// Provider translates already truncated text into lang.
type Provider interface {
	Translate(ctx context.Context, text string, lang string) (string, error)
}

// ProviderError reports a network, auth, quota or response failure of a provider.
type ProviderError struct {
	Provider   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
