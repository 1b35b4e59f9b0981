package models

import "errors"

// ErrEmptyQuery is returned by Validate when the query text is empty.
// Handlers branch on it to map the failure to a 400 response.
var ErrEmptyQuery = errors.New("query cannot be empty")

// IngestTextRequest is the body of POST /api/v1/ingest/text.
type IngestTextRequest struct {
	Text     string `json:"text"`
	SourceID string `json:"source_id,omitempty"`
}

// SearchRequest is the body of POST /api/v1/search and /api/v1/completeness.
type SearchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k,omitempty"`
}

// Validate checks the query and normalizes K against the given defaults.
func (r *SearchRequest) Validate(defaultK, maxK int) error {
	if r.Query == "" {
		return ErrEmptyQuery
	}
	if r.K <= 0 {
		r.K = defaultK
	}
	if maxK > 0 && r.K > maxK {
		r.K = maxK
	}
	return nil
}

// QARequest is the body of POST /api/v1/qa.
type QARequest struct {
	Question string `json:"question"`
	K        int    `json:"k,omitempty"`
}
