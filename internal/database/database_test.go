package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnector_Acquire(t *testing.T) {
	t.Run("should fail on a malformed DSN", func(t *testing.T) {
		c := NewConnector("://not-a-dsn")

		pool, err := c.Acquire(context.Background())
		assert.ErrorContains(t, err, "create pool")
		assert.Nil(t, pool)
	})

	t.Run("should retry after a failed attempt", func(t *testing.T) {
		c := NewConnector("://not-a-dsn")

		_, first := c.Acquire(context.Background())
		assert.Error(t, first)

		// A failed attempt leaves no pool behind, so a later caller
		// goes through the connect path again.
		_, second := c.Acquire(context.Background())
		assert.Error(t, second)
	})
}

func TestConnector_Close(t *testing.T) {
	t.Run("should be safe on a connector that never connected", func(t *testing.T) {
		c := NewConnector("postgres://localhost:5432/orders")
		assert.NotPanics(t, c.Close)
	})
}
