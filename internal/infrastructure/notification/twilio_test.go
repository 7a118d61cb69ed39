package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeNumber(t *testing.T) {
	s := &twilioSender{defaultCountryCode: "+91"}

	cases := []struct {
		name   string
		number string
		want   string
		err    error
	}{
		{"plain", "9876543210", "9876543210", nil},
		{"dashes and spaces", "98-765 432 10", "9876543210", nil},
		{"parens", "(987) 654-3210", "9876543210", nil},
		{"too short", "12345", "", ErrInvalidNumber},
		{"too long after stripping", "919876543210", "", ErrInvalidNumber},
		{"letters only", "call-me-maybe", "", ErrInvalidNumber},
		{"empty", "", "", ErrInvalidNumber},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.sanitizeNumber(tc.number)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSend_InvalidNumberSkipsProvider(t *testing.T) {
	// client is nil: a provider call would panic, proving validation runs
	// first.
	s := &twilioSender{defaultCountryCode: "+91"}

	err := s.Send(context.Background(), "12345", "hello", "")

	assert.ErrorIs(t, err, ErrInvalidNumber)
}
