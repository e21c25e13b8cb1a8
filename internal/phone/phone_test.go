package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"already normalized", "+46701234567", "+46701234567", true},
		{"strips separators", "+46 70-123 45 67", "+46701234567", true},
		{"strips parentheses", "+1 (555) 123-4567", "+15551234567", true},
		{"swedish international without plus", "46701234567", "+46701234567", true},
		{"swedish national with leading zero", "0701234567", "+46701234567", true},
		{"swedish mobile without country code", "701234567", "+46701234567", true},
		{"too short", "12345", "", false},
		{"letters", "+46abc123456", "", false},
		{"bare digits with no inferable prefix", "55512345", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Clean(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("+46701234567"), "12 characters should be accepted")
	assert.True(t, Valid("+123456789"), "10 characters is the lower bound")
	assert.True(t, Valid("+123456789012345"), "16 characters is the upper bound")

	assert.False(t, Valid("46701234567"), "missing plus prefix")
	assert.False(t, Valid("+12345678"), "9 characters is too short")
	assert.False(t, Valid("+1234567890123456"), "17 characters is too long")
	assert.False(t, Valid("+4670123456a"), "non-digit characters")
	assert.False(t, Valid(""))
}
