package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"empty list allows all", "https://evil.example", nil, true},
		{"exact match", "https://app.example.com", []string{"https://app.example.com"}, true},
		{"mismatch rejected", "https://other.example.com", []string{"https://app.example.com"}, false},
		{"wildcard port matches", "http://localhost:5173", []string{"http://localhost:*"}, true},
		{"wildcard port requires digits", "http://localhost:abc", []string{"http://localhost:*"}, false},
		{"wildcard port requires a port", "http://localhost", []string{"http://localhost:*"}, false},
		{"missing origin treated as file", "", []string{"file://"}, true},
		{"null origin treated as file", "null", []string{"file://"}, true},
		{"missing origin rejected without file entry", "", []string{"https://app.example.com"}, false},
		{"second entry matches", "https://b.example", []string{"https://a.example", "https://b.example"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OriginAllowed(tt.origin, tt.allowed))
		})
	}
}
