package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/account-tracker-api/infrastructure/repository/mocks"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
	"github.com/vfg2006/account-tracker-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func init() {
	log.SetupTestLogger()
}

var frozenNow = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

func newPipelineService(t *testing.T) (*Service, *mocks.MockAccountRepository, *mocks.MockDealRepository) {
	ctrl := gomock.NewController(t)

	accountRepo := mocks.NewMockAccountRepository(ctrl)
	dealRepo := mocks.NewMockDealRepository(ctrl)

	service := NewService(accountRepo, dealRepo)
	service.now = func() time.Time { return frozenNow }

	return service, accountRepo, dealRepo
}

func pipelineErrorCode(t *testing.T, err error) string {
	t.Helper()

	var pipeErr *PipelineError
	require.True(t, errors.As(err, &pipeErr), "esperava um *PipelineError, recebi %T", err)
	return pipeErr.Code
}

func setStage(stage string) domain.OptionalString {
	return domain.OptionalString{Set: true, Valid: true, Value: stage}
}

func TestCreateDeal(t *testing.T) {
	ctx := context.Background()
	account := &domain.Account{ID: 1, Name: "Rockwell Automation"}

	t.Run("estágio vazio assume discovery", func(t *testing.T) {
		service, accountRepo, dealRepo := newPipelineService(t)

		accountRepo.EXPECT().GetAccountByID(ctx, 1).Return(account, nil)
		dealRepo.EXPECT().InsertDeal(ctx, gomock.Any()).Return(nil)

		deal, err := service.CreateDeal(ctx, &domain.CreateDealRequest{AccountID: 1, Name: "Expansão fabril"})

		require.NoError(t, err)
		assert.Equal(t, domain.StageDiscovery, deal.Stage)
		assert.Nil(t, deal.ClosedAt)
	})

	t.Run("deal criado já fechado recebe closed_at imediatamente", func(t *testing.T) {
		service, accountRepo, dealRepo := newPipelineService(t)

		accountRepo.EXPECT().GetAccountByID(ctx, 1).Return(account, nil)
		dealRepo.EXPECT().InsertDeal(ctx, gomock.Any()).Return(nil)

		deal, err := service.CreateDeal(ctx, &domain.CreateDealRequest{
			AccountID: 1,
			Name:      "Renovação anual",
			Stage:     domain.StageClosedWon,
		})

		require.NoError(t, err)
		require.NotNil(t, deal.ClosedAt)
		assert.Equal(t, frozenNow, *deal.ClosedAt)
	})

	t.Run("rejeita estágio desconhecido", func(t *testing.T) {
		service, _, _ := newPipelineService(t)

		_, err := service.CreateDeal(ctx, &domain.CreateDealRequest{
			AccountID: 1,
			Name:      "Deal",
			Stage:     "daydreaming",
		})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrInvalidFormat, pipelineErrorCode(t, err))
	})

	t.Run("rejeita nome vazio", func(t *testing.T) {
		service, _, _ := newPipelineService(t)

		_, err := service.CreateDeal(ctx, &domain.CreateDealRequest{AccountID: 1, Name: "  "})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrMissingRequiredData, pipelineErrorCode(t, err))
	})
}

func TestUpdateDeal(t *testing.T) {
	ctx := context.Background()

	openDeal := func() *domain.Deal {
		value := 50000.0
		return &domain.Deal{ID: 7, AccountID: 1, Name: "Expansão fabril", Stage: domain.StageProposal, Value: &value}
	}

	closedAt := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	closedDeal := func(stage domain.DealStage) *domain.Deal {
		at := closedAt
		return &domain.Deal{ID: 7, AccountID: 1, Name: "Expansão fabril", Stage: stage, ClosedAt: &at}
	}

	t.Run("fechar um deal aberto preenche closed_at", func(t *testing.T) {
		service, _, dealRepo := newPipelineService(t)

		dealRepo.EXPECT().GetDealByID(ctx, 7).Return(openDeal(), nil)
		dealRepo.EXPECT().UpdateDeal(ctx, gomock.Any()).Return(nil)

		deal, err := service.UpdateDeal(ctx, &domain.UpdateDealRequest{ID: 7, Stage: setStage("closed_won")})

		require.NoError(t, err)
		assert.Equal(t, domain.StageClosedWon, deal.Stage)
		require.NotNil(t, deal.ClosedAt)
		assert.Equal(t, frozenNow, *deal.ClosedAt)
	})

	t.Run("closed_won para closed_lost preserva o timestamp original", func(t *testing.T) {
		service, _, dealRepo := newPipelineService(t)

		dealRepo.EXPECT().GetDealByID(ctx, 7).Return(closedDeal(domain.StageClosedWon), nil)
		dealRepo.EXPECT().UpdateDeal(ctx, gomock.Any()).Return(nil)

		deal, err := service.UpdateDeal(ctx, &domain.UpdateDealRequest{ID: 7, Stage: setStage("closed_lost")})

		require.NoError(t, err)
		assert.Equal(t, domain.StageClosedLost, deal.Stage)
		require.NotNil(t, deal.ClosedAt)
		assert.Equal(t, closedAt, *deal.ClosedAt)
	})

	t.Run("reabrir um deal fechado limpa closed_at", func(t *testing.T) {
		service, _, dealRepo := newPipelineService(t)

		dealRepo.EXPECT().GetDealByID(ctx, 7).Return(closedDeal(domain.StageClosedLost), nil)
		dealRepo.EXPECT().UpdateDeal(ctx, gomock.Any()).Return(nil)

		deal, err := service.UpdateDeal(ctx, &domain.UpdateDealRequest{ID: 7, Stage: setStage("negotiation")})

		require.NoError(t, err)
		assert.Equal(t, domain.StageNegotiation, deal.Stage)
		assert.Nil(t, deal.ClosedAt)
	})

	t.Run("repetir o mesmo estágio fechado não altera closed_at", func(t *testing.T) {
		service, _, dealRepo := newPipelineService(t)

		dealRepo.EXPECT().GetDealByID(ctx, 7).Return(closedDeal(domain.StageClosedWon), nil)
		dealRepo.EXPECT().UpdateDeal(ctx, gomock.Any()).Return(nil)

		deal, err := service.UpdateDeal(ctx, &domain.UpdateDealRequest{ID: 7, Stage: setStage("closed_won")})

		require.NoError(t, err)
		require.NotNil(t, deal.ClosedAt)
		assert.Equal(t, closedAt, *deal.ClosedAt)
	})

	t.Run("value com null limpa o valor do deal", func(t *testing.T) {
		service, _, dealRepo := newPipelineService(t)

		dealRepo.EXPECT().GetDealByID(ctx, 7).Return(openDeal(), nil)
		dealRepo.EXPECT().UpdateDeal(ctx, gomock.Any()).Return(nil)

		deal, err := service.UpdateDeal(ctx, &domain.UpdateDealRequest{
			ID:    7,
			Value: domain.OptionalFloat{Set: true, Valid: false},
		})

		require.NoError(t, err)
		assert.Nil(t, deal.Value)
	})

	t.Run("estágio null é rejeitado", func(t *testing.T) {
		service, _, dealRepo := newPipelineService(t)

		dealRepo.EXPECT().GetDealByID(ctx, 7).Return(openDeal(), nil)

		_, err := service.UpdateDeal(ctx, &domain.UpdateDealRequest{
			ID:    7,
			Stage: domain.OptionalString{Set: true, Valid: false},
		})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrInvalidFormat, pipelineErrorCode(t, err))
	})

	t.Run("deal inexistente devolve not found", func(t *testing.T) {
		service, _, dealRepo := newPipelineService(t)

		dealRepo.EXPECT().GetDealByID(ctx, 99).Return(nil, nil)

		_, err := service.UpdateDeal(ctx, &domain.UpdateDealRequest{ID: 99, Stage: setStage("proposal")})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrDealNotFound, pipelineErrorCode(t, err))
	})
}

func TestDeleteDeal(t *testing.T) {
	ctx := context.Background()

	t.Run("exclui o deal existente", func(t *testing.T) {
		service, _, dealRepo := newPipelineService(t)

		dealRepo.EXPECT().GetDealByID(ctx, 7).Return(&domain.Deal{ID: 7}, nil)
		dealRepo.EXPECT().DeleteDeal(ctx, 7).Return(nil)

		assert.NoError(t, service.DeleteDeal(ctx, 7))
	})

	t.Run("deal inexistente devolve not found", func(t *testing.T) {
		service, _, dealRepo := newPipelineService(t)

		dealRepo.EXPECT().GetDealByID(ctx, 99).Return(nil, nil)

		err := service.DeleteDeal(ctx, 99)

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrDealNotFound, pipelineErrorCode(t, err))
	})
}
