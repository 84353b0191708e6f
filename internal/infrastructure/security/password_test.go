package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "hunter2", hash)

	assert.NoError(t, hasher.Compare(hash, "hunter2"))
	assert.Error(t, hasher.Compare(hash, "wrong"))
	assert.Error(t, hasher.Compare("not-a-bcrypt-hash", "hunter2"))
}
