package webhook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Verify(t *testing.T) {
	body := []byte(`{"awb":"AWB123","shipment_status_id":7}`)
	good := Sign([]byte("s3cret"), body)

	tests := []struct {
		name      string
		mode      AuthMode
		signature string
		wantErr   error
	}{
		{"valid", AuthEnforced, good, nil},
		{"valid with prefix and upper case", AuthEnforced, "sha256=" + strings.ToUpper(good), nil},
		{"missing", AuthEnforced, "", ErrSignatureMissing},
		{"tampered", AuthEnforced, Sign([]byte("s3cret"), []byte(`{}`)), ErrSignatureMismatch},
		{"disabled ignores signature", AuthDisabled, "garbage", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := NewVerifier(tc.mode, "s3cret")
			require.NoError(t, err)
			assert.ErrorIs(t, v.Verify(body, tc.signature), tc.wantErr)
		})
	}
}

func TestNewVerifier(t *testing.T) {
	_, err := NewVerifier(AuthEnforced, "")
	assert.Error(t, err)

	v, err := NewVerifier(AuthDisabled, "")
	require.NoError(t, err)
	assert.Equal(t, AuthDisabled, v.Mode())
}

func TestParseAuthMode(t *testing.T) {
	mode, err := ParseAuthMode(" Enforced ")
	require.NoError(t, err)
	assert.Equal(t, AuthEnforced, mode)

	mode, err = ParseAuthMode("disabled")
	require.NoError(t, err)
	assert.Equal(t, AuthDisabled, mode)

	_, err = ParseAuthMode("")
	assert.Error(t, err)
}
