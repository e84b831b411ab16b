package variable

import "errors"

// Error kinds reported by FileValueBuilder. Callers match them with errors.Is; the
// underlying I/O error, when there is one, stays reachable through errors.As.
var (
	// ErrInvalidArgument reports a nil input or an unusable encoding handle.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSourceUnavailable reports a path or object that could not be opened.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrIngestionFailure reports a read or cleanup failure while draining a source.
	ErrIngestionFailure = errors.New("ingestion failure")
	// ErrBuilderSpent reports use of a builder after Build handed out its value.
	ErrBuilderSpent = errors.New("builder already built")
)
