package pipeline

import "errors"

var (
	// ErrSourceNotFound means the input could not be opened or read. Fatal.
	ErrSourceNotFound = errors.New("source not found")
	// ErrMalformedSource means the header or row shape does not match. Fatal.
	ErrMalformedSource = errors.New("malformed source")
	// ErrEmptyDataset means there are no records to take a mean over.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrSnapshotWriteFailed means the cleaned snapshot could not be written.
	// The cleaned records are still valid.
	ErrSnapshotWriteFailed = errors.New("snapshot write failed")
)
