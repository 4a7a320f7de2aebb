package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		day  time.Time
	}{
		{"segunda devolve a própria data", monday},
		{"quarta volta para a segunda", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)},
		{"sábado volta para a segunda", time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)},
		{"domingo pertence à semana anterior", time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, monday, WeekStart(tt.day))
		})
	}
}

func TestGenerateRunID(t *testing.T) {
	id, err := GenerateRunID()
	assert.NoError(t, err)
	assert.Len(t, id, 10)

	other, err := GenerateRunID()
	assert.NoError(t, err)
	assert.NotEqual(t, id, other)
}
