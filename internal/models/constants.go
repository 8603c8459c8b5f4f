// Package models contains data types and constants for the bookchat query protocol.
package models

// Wire protocol of the local assistant endpoint
const (
	// DefaultEndpoint is where the bookstore assistant listens
	DefaultEndpoint = "http://127.0.0.1:1616/"

	// QueryParam carries the lower-cased user text
	QueryParam = "query"

	// ResponseField holds the markdown reply in the JSON body
	ResponseField = "response"

	// LegacyResponseField is the misspelt key emitted by the original Flask backend
	LegacyResponseField = "respone"
)

// DefaultHeaders returns the headers sent with every query.
// The endpoint only requires the GET itself; these keep the request
// recognisable in server logs.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "bookchat",
	}
}
