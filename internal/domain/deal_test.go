package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadingStage(t *testing.T) {
	t.Run("o estágio mais avançado vence", func(t *testing.T) {
		leading := LeadingStage([]DealStage{StageDiscovery, StageNegotiation, StageProposal})
		require.NotNil(t, leading)
		assert.Equal(t, StageNegotiation, *leading)
	})

	t.Run("estágios fechados são ignorados", func(t *testing.T) {
		leading := LeadingStage([]DealStage{StageClosedWon, StageDesign, StageClosedLost})
		require.NotNil(t, leading)
		assert.Equal(t, StageDesign, *leading)
	})

	t.Run("sem deals abertos devolve nil", func(t *testing.T) {
		assert.Nil(t, LeadingStage(nil))
		assert.Nil(t, LeadingStage([]DealStage{StageClosedWon}))
	})
}

func TestDealStageClosed(t *testing.T) {
	assert.True(t, StageClosedWon.Closed())
	assert.True(t, StageClosedLost.Closed())
	assert.False(t, StageNegotiation.Closed())
}
