package mimetypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		expected MIME
		want     bool
	}{
		{"Plain text with charset", "text/plain; charset=utf-8", TextPlain, true},
		{"Gzip", "application/gzip", ApplicationGzip, true},
		{"Tar", "application/x-tar", ApplicationTar, true},
		{"JSON with charset", "application/json; charset=utf-8", ApplicationJSON, true},
		{"Gzip is not tar", "application/gzip", ApplicationTar, false},
		{"Unknown type", "application/octet-stream", TextPlain, false},
		{"Invalid MIME", "not a mime", TextPlain, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Matches(tt.detected, tt.expected)
			require.Equal(t, tt.want, ok)
		})
	}
}
