package source

import "fmt"

// TransportError reports an HTTP-level failure while calling the news
// provider. Body holds a truncated response snippet for diagnostics.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("news provider returned status %d body: %s", e.Status, e.Body)
}

// ProviderError reports a logical failure signalled inside the
// provider's own payload, distinct from the HTTP status.
type ProviderError struct {
	Status  string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("news provider response status %q: %s", e.Status, e.Message)
}
