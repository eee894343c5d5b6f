package models

// SearchResult is one matching text, keyed back to the question that owns it.
type SearchResult struct {
	QuestionID uint64 `db:"question_id" json:"question_id"`
	// Headline is an HTML fragment: matches are wrapped in <mark> and all
	// other text is entity-escaped, so render it as HTML, not as plain text.
	Headline string `db:"headline" json:"headline"`
}
