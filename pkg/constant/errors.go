package constant

import (
	"errors"
)

// List of errors that can be returned.
// You can standardize errors
// Standardized error
var (
	ErrMissingRequiredFields        = errors.New("DTF-0001")
	ErrInvalidHeaderParameter       = errors.New("DTF-0002")
	ErrInvalidPathParameter         = errors.New("DTF-0003")
	ErrInvalidQueryParameter        = errors.New("DTF-0004")
	ErrEntityNotFound               = errors.New("DTF-0005")
	ErrDuplicateFeedName            = errors.New("DTF-0006")
	ErrInvalidSourceURL             = errors.New("DTF-0007")
	ErrUnexpectedFieldsInTheRequest = errors.New("DTF-0008")
	ErrMissingFieldsInRequest       = errors.New("DTF-0009")
	ErrBadRequest                   = errors.New("DTF-0010")
	ErrInternalServer               = errors.New("DTF-0011")
	ErrInvalidFeedID                = errors.New("DTF-0012")
	ErrPaginationLimitExceeded      = errors.New("DTF-0013")
	ErrInvalidSortOrder             = errors.New("DTF-0014")
	ErrMetadataKeyLengthExceeded    = errors.New("DTF-0015")
	ErrMetadataValueLengthExceeded  = errors.New("DTF-0016")
	ErrInvalidMetadataNesting       = errors.New("DTF-0017")
	ErrFeedStatusNotSynced          = errors.New("DTF-0018")
	ErrInvalidEntryAmount           = errors.New("DTF-0019")
	ErrInvalidEntryTimestamp        = errors.New("DTF-0020")
	ErrSyncAlreadyRunning           = errors.New("DTF-0109")
	ErrNilItems                     = errors.New("DTF-0401")
	ErrInvalidPageCursor            = errors.New("DTF-0402")
	ErrPageWalkLimitExceeded        = errors.New("DTF-0403")
	ErrSourcePageFetch              = errors.New("DTF-0404")
	ErrRateLimitExceeded            = errors.New("DTF-0429")
)
