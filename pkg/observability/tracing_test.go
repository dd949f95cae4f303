package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrace_RunsFunctionWithoutParentSegment(t *testing.T) {
	t.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	tracer := NewTracer("catalog-backend")

	called := false
	wantErr := errors.New("store unavailable")
	err := tracer.Trace(context.Background(), "product.create", func(context.Context) error {
		called = true
		return wantErr
	})

	assert.True(t, called)
	assert.ErrorIs(t, err, wantErr)
}
