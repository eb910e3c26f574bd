package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Default pagination values
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params represents limit/offset query parameters.
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ParseParams extracts and validates pagination parameters from the request.
// Missing or malformed values fall back to the defaults.
func ParseParams(c *gin.Context) Params {
	limit := DefaultLimit
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l >= 0 {
			limit = l
			if limit > MaxLimit {
				limit = MaxLimit
			}
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return Params{Limit: limit, Offset: offset}
}

// Validate clamps out-of-range values back to the defaults.
func (p *Params) Validate() {
	if p.Limit < 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
