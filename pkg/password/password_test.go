package password_test

import (
	"encoding/base64"
	"testing"

	"github.com/limbo/moodlog/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := password.Hash("correct horse")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(hash)
	require.NoError(t, err)
	assert.Len(t, raw, 48)

	ok, err := password.Verify("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = password.Verify("Correct horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	first, err := password.Hash("same_password")
	require.NoError(t, err)
	second, err := password.Hash("same_password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyMalformed(t *testing.T) {
	testCases := []struct {
		Desc   string
		Stored string
	}{
		{Desc: "not base64", Stored: "%%%"},
		{Desc: "too short", Stored: base64.StdEncoding.EncodeToString([]byte("short"))},
		{Desc: "empty", Stored: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			ok, err := password.Verify("whatever", tc.Stored)
			assert.ErrorIs(t, err, password.ErrMalformedHash)
			assert.False(t, ok)
		})
	}
}
