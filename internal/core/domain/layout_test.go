package domain_test

import (
	"path/filepath"
	"testing"

	"go.trai.ch/hdrcost/internal/core/domain"
)

func TestLayoutPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "DefaultHdrcostPath",
			got:      domain.DefaultHdrcostPath(),
			expected: ".hdrcost",
		},
		{
			name:     "DefaultCachePath",
			got:      domain.DefaultCachePath(),
			expected: filepath.Join(".hdrcost", "cache"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}
