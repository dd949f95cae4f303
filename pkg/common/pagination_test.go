package common

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
)

func TestExtractPageRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/product", nil)

	req, err := ExtractPageRequest(r)
	require.NoError(t, err)

	assert.Equal(t, int32(defaultPageLimit), req.Limit)
	assert.Equal(t, ports.DirectionNext, req.Direction)
	assert.Empty(t, req.Status)
	assert.Empty(t, req.Cursor)
}

func TestExtractPageRequest_AllParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/product?status=FOR_APPROVAL&limit=5&direction=prev&cursorPointer=abc", nil)

	req, err := ExtractPageRequest(r)
	require.NoError(t, err)

	assert.Equal(t, catalog.StatusForApproval, req.Status)
	assert.Equal(t, int32(5), req.Limit)
	assert.Equal(t, ports.DirectionPrev, req.Direction)
	assert.Equal(t, "abc", req.Cursor)
}

func TestExtractPageRequest_ClampsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/product?limit=5000", nil)

	req, err := ExtractPageRequest(r)
	require.NoError(t, err)
	assert.Equal(t, int32(maxPageLimit), req.Limit)
}

func TestExtractPageRequest_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"negative limit", "limit=-1"},
		{"non-numeric limit", "limit=abc"},
		{"bad direction", "direction=sideways"},
		{"unknown status", "status=DELETED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/product?"+tt.query, nil)
			_, err := ExtractPageRequest(r)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}
