package creatorinsight

import "github.com/Prachiti-Gaikwad/creator-insight/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDatasetNotFound     = domain.ErrDatasetNotFound
	ErrInvalidWeights      = domain.ErrInvalidWeights
	ErrMalformedDataset    = domain.ErrMalformedDataset
	ErrParserProviderError = domain.ErrParserProviderError
)
