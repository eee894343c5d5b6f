package constants

// Validation limits
const (
	// MinTextLength is the minimum rune length of article and comment bodies
	MinTextLength = 5
	// MinTitleLength is the minimum rune length of a question title
	MinTitleLength = 5
)

// Session and context keys
const (
	SessionCookieName = "snacks_session"
	ContextKeyUserID  = "user_id"
)

// Search options
const (
	// SearchConfig is the Postgres text search configuration used for vectors and queries
	SearchConfig = "english"
	// HeadlineOptions is passed verbatim to ts_headline
	HeadlineOptions = "StartSel=<mark>, StopSel=</mark>, MaxFragments=2"
)
