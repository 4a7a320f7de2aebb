package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cada campo opcional distingue ausente, null e valor. Os três estados
// guiam os patches parciais: ausente não altera, null limpa.
func TestOptionalFields(t *testing.T) {
	type patch struct {
		Name  OptionalString `json:"name"`
		Due   OptionalDate   `json:"due"`
		Value OptionalFloat  `json:"value"`
	}

	t.Run("campo ausente do JSON fica com Set false", func(t *testing.T) {
		var p patch
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

		assert.False(t, p.Name.Set)
		assert.False(t, p.Due.Set)
		assert.False(t, p.Value.Set)
	})

	t.Run("campo com null fica Set e inválido", func(t *testing.T) {
		var p patch
		require.NoError(t, json.Unmarshal([]byte(`{"name": null, "value": null}`), &p))

		assert.True(t, p.Name.Set)
		assert.False(t, p.Name.Valid)
		assert.True(t, p.Value.Set)
		assert.False(t, p.Value.Valid)
	})

	t.Run("campo com valor fica Set e válido", func(t *testing.T) {
		var p patch
		require.NoError(t, json.Unmarshal([]byte(`{"name": "Fiserv", "due": "2024-04-01", "value": 1500.5}`), &p))

		assert.True(t, p.Name.Valid)
		assert.Equal(t, "Fiserv", p.Name.Value)
		assert.True(t, p.Due.Valid)
		assert.Equal(t, "2024-04-01", p.Due.Value.String())
		assert.True(t, p.Value.Valid)
		assert.Equal(t, 1500.5, p.Value.Value)
	})
}
