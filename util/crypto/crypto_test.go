package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPasswordAsBcrypt("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPasswordHash(hash, "s3cret"))
	assert.False(t, CheckPasswordHash(hash, "S3cret"))
	assert.False(t, CheckPasswordHash("plaintext", "plaintext"))
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := HashPasswordAsBcrypt("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}
