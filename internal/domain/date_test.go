package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("aceita o formato ISO de dia", func(t *testing.T) {
		d, err := ParseDate("2024-03-15")
		require.NoError(t, err)
		assert.Equal(t, NewDate(2024, time.March, 15), d)
	})

	t.Run("rejeita formatos fora do padrão", func(t *testing.T) {
		_, err := ParseDate("15/03/2024")
		assert.Error(t, err)
	})
}

func TestDateScan(t *testing.T) {
	t.Run("aceita time.Time do driver postgres", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan(time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)))
		assert.Equal(t, NewDate(2024, time.March, 15), d)
	})

	t.Run("aceita string com sufixo de hora do sqlite", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan("2024-03-15 00:00:00"))
		assert.Equal(t, NewDate(2024, time.March, 15), d)
	})

	t.Run("NULL vira data zero", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan(nil))
		assert.True(t, d.IsZero())
	})
}

func TestDateJSON(t *testing.T) {
	t.Run("serializa como string ISO", func(t *testing.T) {
		data, err := json.Marshal(NewDate(2024, time.March, 15))
		require.NoError(t, err)
		assert.Equal(t, `"2024-03-15"`, string(data))
	})

	t.Run("data zero serializa como null", func(t *testing.T) {
		data, err := json.Marshal(Date{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})

	t.Run("null desserializa como data zero", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte("null"), &d))
		assert.True(t, d.IsZero())
	})
}

func TestDateAddDays(t *testing.T) {
	// atravessa o 29 de fevereiro de um ano bissexto
	d := NewDate(2024, time.March, 1)
	assert.Equal(t, NewDate(2024, time.February, 29), d.AddDays(-1))
	assert.Equal(t, NewDate(2024, time.March, 31), d.AddDays(30))
}
