package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "wagebridge/pkg/domain-errors"
)

func TestGenerate(t *testing.T) {
	first, err := Generate()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := Generate()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashAndVerify(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hash, err := Hash("employer-secret")
		require.NoError(t, err)
		assert.NoError(t, Verify("employer-secret", hash))
	})

	t.Run("wrong secret is unauthorized", func(t *testing.T) {
		hash, err := Hash("employer-secret")
		require.NoError(t, err)

		err = Verify("other-secret", hash)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("empty secret rejected", func(t *testing.T) {
		_, err := Hash("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
