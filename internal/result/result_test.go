package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrElse(t *testing.T) {
	t.Run("keeps the first success", func(t *testing.T) {
		called := false
		r := Ok(1).OrElse(func() Result[int] {
			called = true
			return Ok(2)
		})

		assert.Equal(t, 1, r.Value)
		assert.False(t, called)
	})

	t.Run("falls back on failure", func(t *testing.T) {
		r := Fail[int](errors.New("movie not found")).OrElse(func() Result[int] {
			return Ok(2)
		})

		v, err := r.Unwrap()
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})

	t.Run("returns the fallback error when both fail", func(t *testing.T) {
		r := Fail[int](errors.New("first")).OrElse(func() Result[int] {
			return Fail[int](errors.New("second"))
		})

		assert.False(t, r.IsOk())
		assert.EqualError(t, r.Err, "second")
	})
}

func TestFrom(t *testing.T) {
	assert.True(t, From(5, nil).IsOk())

	r := From(0, errors.New("boom"))
	assert.False(t, r.IsOk())
	assert.EqualError(t, r.Err, "boom")
}
