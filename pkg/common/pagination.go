package common

import (
	"net/http"
	"strconv"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ExtractPageRequest parses ?status=&limit=&direction=&cursorPointer= into
// a PageRequest, rejecting malformed values with a validation error.
func ExtractPageRequest(r *http.Request) (ports.PageRequest, error) {
	req := ports.PageRequest{
		Limit:     defaultPageLimit,
		Direction: ports.DirectionNext,
	}

	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return req, apperrors.NewValidationError("limit must be a positive integer")
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
		req.Limit = int32(limit)
	}

	if dir := q.Get("direction"); dir != "" {
		if dir != ports.DirectionNext && dir != ports.DirectionPrev {
			return req, apperrors.NewValidationError("direction must be next or prev")
		}
		req.Direction = dir
	}

	if raw := q.Get("status"); raw != "" {
		status, err := catalog.ParseStatus(raw)
		if err != nil {
			return req, apperrors.NewValidationError("invalid status filter: " + raw)
		}
		req.Status = status
	}

	req.Cursor = q.Get("cursorPointer")

	return req, nil
}
