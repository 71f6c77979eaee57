// Package domain contains core domain types for the persona-lab application.
package domain

// Question is a single test question. Questions are defined at build time
// and ordered; the index within the bank identifies a question in a session.
type Question struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Prompt   string `json:"question"`
	// Criteria guides the remote classifier and is never shown to the user.
	Criteria string `json:"-"`
}
