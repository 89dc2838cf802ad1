package pagination

import (
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Params contains limit/offset pagination parameters
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// FromQuery parses pagination parameters from raw query values,
// clamping them to sane bounds.
func FromQuery(limitStr, offsetStr string) Params {
	limit := DefaultLimit
	if limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset := 0
	if offsetStr != "" {
		if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
			offset = v
		}
	}

	return Params{Limit: limit, Offset: offset}
}

// PageInfo describes the window returned by a list endpoint
type PageInfo struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Count      int  `json:"count"`
	TotalCount *int `json:"total_count,omitempty"`
}
