package contract

import "context"

// Retriever returns the top-K most relevant passages for a query, best first.
// An empty slice means the index has nothing relevant; implementations return
// ErrRetrievalUnavailable (wrapped) when no index exists at all.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]string, error)
}

// EventPublisher is the one-way channel to the frontend UI.
//
// Publish serializes {"type": kind, ...data} and broadcasts it on the session
// channel. It reports success as a boolean and never panics or errors: any
// transport or serialization failure is logged by the implementation and
// surfaced as false. Ready reports whether a channel is attached at all, so
// callers can refuse work before mutating state.
type EventPublisher interface {
	Ready() bool
	Publish(ctx context.Context, kind EventKind, data map[string]any) bool
}
