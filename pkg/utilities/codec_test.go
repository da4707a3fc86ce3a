package utilities

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for i := 0; i < 20; i++ {
		id := NewKSUID()
		token := EncodeID(id)
		decoded, err := DecodeID(token)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestEncodeProducesOpaqueToken(t *testing.T) {
	id := NewKSUID()
	assert.NotEqual(t, id, EncodeID(id))
}

func TestDecodeMalformedTokens(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "%%%not-base64%%%"},
		{"base64 of non-ksuid", base64.URLEncoding.EncodeToString([]byte("not a ksuid"))},
		{"base64 of empty", base64.URLEncoding.EncodeToString(nil)},
		{"truncated token", EncodeID(NewKSUID())[:5]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeID(tc.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedID)
		})
	}
}
