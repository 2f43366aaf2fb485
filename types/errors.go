package types

import "errors"

// Collaborator-boundary failures. Adapters wrap provider errors with these so
// callers can test with errors.Is.
var (
	ErrEmbedding              = errors.New("embedding failed")
	ErrSearch                 = errors.New("vector search failed")
	ErrCompletion             = errors.New("completion failed")
	ErrStructuring            = errors.New("response structuring failed")
	ErrStorage                = errors.New("storage failed")
	ErrNotFound               = errors.New("record not found")
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
	ErrInvalidInput           = errors.New("invalid input")
)
