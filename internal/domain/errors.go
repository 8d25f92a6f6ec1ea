package domain

import "errors"

var (
	// ErrDatasetNotFound signals a missing dataset.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrInvalidWeights signals negative or otherwise unusable ranking weights.
	ErrInvalidWeights = errors.New("invalid weights")
	// ErrInvalidSpec signals an invalid filter specification.
	ErrInvalidSpec = errors.New("invalid filter spec")
	// ErrMalformedDataset signals an upload that cannot be parsed at all.
	ErrMalformedDataset = errors.New("malformed dataset")
	// ErrParserProviderError signals a remote query-parser failure.
	ErrParserProviderError = errors.New("query parser provider error")
)
