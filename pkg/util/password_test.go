package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureHashed(t *testing.T) {
	hash, err := EnsureHashed("changeme")
	require.NoError(t, err)
	assert.True(t, IsHashed(hash))
	assert.True(t, VerifyPassword(hash, "changeme"))

	again, err := EnsureHashed(hash)
	require.NoError(t, err)
	assert.Equal(t, hash, again)
}

func TestIsHashed(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "plain text", password: "changeme", want: false},
		{name: "empty", password: "", want: false},
		{name: "bcrypt", password: "$2a$04$Ai1SIOZBwBS7nq4Pfkhxk.1ek4NKzdthfrwi/4XTVDiWDBhK4of9y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHashed(tt.password))
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("mySecurePassword123")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "mySecurePassword123"))
	assert.False(t, VerifyPassword(hash, "wrongPassword"))
	assert.False(t, VerifyPassword("invalid-hash", "mySecurePassword123"))
}
