package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldSuppressHeader(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want bool
	}{
		{"default", context.Background(), false},
		{"suppressed", WithSuppressHeader(context.Background()), true},
		{"wrong type", context.WithValue(context.Background(), suppressHeaderKey, "yes"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldSuppressHeader(tt.ctx))
		})
	}
}
