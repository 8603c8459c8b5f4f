package models

import "strings"

// QueryRequest is the value sent to the endpoint for one submission
type QueryRequest struct {
	// ID is a per-widget sequence number, starting at 1
	ID uint64
	// Query is the trimmed, lower-cased input
	Query string
}

// NormalizeInput trims the raw field value. The result is what the user
// message shows.
func NormalizeInput(raw string) string {
	return strings.TrimSpace(raw)
}

// NewQueryRequest builds a request from trimmed input. It returns false
// for empty input, which must never reach the network.
func NewQueryRequest(id uint64, trimmed string) (QueryRequest, bool) {
	if trimmed == "" {
		return QueryRequest{}, false
	}
	return QueryRequest{ID: id, Query: strings.ToLower(trimmed)}, true
}

// QueryResponse is the decoded reply of the endpoint
type QueryResponse struct {
	// Text is the markdown string found in the response field
	Text string
	// Field names which JSON key supplied Text
	Field string
}
