// Error values shared by every stage, and the user-facing text for an
// empty query.

package core

import "errors"

// EmptyQueryWarning is shown when the query is blank, by the CLI and the web UI.
const EmptyQueryWarning = "Please enter a search query."

// Error taxonomy. Adapters wrap these with %w; callers match with errors.Is.
var (
	// ErrSourceFetch marks a per-source fetch or parse failure. The pipeline
	// absorbs it and substitutes empty content.
	ErrSourceFetch = errors.New("source fetch failed")

	// ErrSearchProvider marks a failed search call. Fatal for the query.
	ErrSearchProvider = errors.New("search provider failed")

	// ErrSummarization marks a failed model call. Fatal for the query.
	ErrSummarization = errors.New("summarization failed")

	// ErrEmptyQuery is returned when there is nothing to search for.
	ErrEmptyQuery = errors.New("please enter a search query")
)
