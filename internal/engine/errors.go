package engine

import "errors"

// Sentinel errors forming the failure taxonomy. Results wrap these so
// callers can branch with errors.Is.
var (
	// ErrNotFound: the slug is absent from the catalog.
	ErrNotFound = errors.New("skill not found in catalog")

	// ErrNetwork: index fetch or payload download failed. Always recoverable
	// upstream via stale cache or an empty index.
	ErrNetwork = errors.New("network failure")

	// ErrEmptyPayload: the downloaded flat payload had no content.
	ErrEmptyPayload = errors.New("empty payload")

	// ErrSecurity: an archive member path is absolute or traverses upward.
	// Fatal; nothing is extracted.
	ErrSecurity = errors.New("archive path escapes extraction root")

	// ErrArchive: the payload is not a valid gzip tar stream, or it yields
	// no top-level directory.
	ErrArchive = errors.New("malformed archive")

	// ErrNotTracked: update/uninstall was asked for a slug the state store
	// doesn't know.
	ErrNotTracked = errors.New("skill is not tracked as installed")

	// ErrDependencyUnavailable: a dependency is missing and the entry
	// declares no way to install it.
	ErrDependencyUnavailable = errors.New("no install method for missing dependency")
)
