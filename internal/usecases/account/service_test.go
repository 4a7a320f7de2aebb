package account

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

type accountMocks struct {
	accountRepo *mocks.MockAccountRepository
	dealRepo    *mocks.MockDealRepository
	contactRepo *mocks.MockContactRepository
}

func newAccountService(t *testing.T) (AccountService, *accountMocks) {
	ctrl := gomock.NewController(t)

	m := &accountMocks{
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		dealRepo:    mocks.NewMockDealRepository(ctrl),
		contactRepo: mocks.NewMockContactRepository(ctrl),
	}

	return NewService(m.accountRepo, m.dealRepo, m.contactRepo), m
}

func accountErrorCode(t *testing.T, err error) string {
	t.Helper()

	var accErr *AccountError
	require.True(t, errors.As(err, &accErr), "esperava um *AccountError, recebi %T", err)
	return accErr.Code
}

func floatPtr(v float64) *float64 { return &v }

func TestListAccounts(t *testing.T) {
	ctx := context.Background()
	asOf := domain.NewDate(2024, time.March, 15)

	summary := func(id int, name string, touched bool) *domain.AccountSummary {
		return &domain.AccountSummary{
			Account:      domain.Account{ID: id, Name: name},
			TouchedToday: touched,
		}
	}

	t.Run("agrega os deals abertos por conta e escolhe o estágio líder", func(t *testing.T) {
		service, m := newAccountService(t)

		m.accountRepo.EXPECT().ListAccountSummaries(ctx, asOf).Return([]*domain.AccountSummary{
			summary(1, "Acuity Insurance", true),
			summary(2, "Epic Systems", false),
			summary(3, "Fiserv", false),
		}, nil)

		m.dealRepo.EXPECT().ListOpen(ctx).Return([]*domain.Deal{
			{ID: 10, AccountID: 1, Stage: domain.StageDiscovery, Value: floatPtr(10000)},
			{ID: 11, AccountID: 1, Stage: domain.StageNegotiation, Value: floatPtr(25000)},
			{ID: 12, AccountID: 1, Stage: domain.StageProposal, Value: nil},
			{ID: 13, AccountID: 2, Stage: domain.StageDesign, Value: floatPtr(5000)},
		}, nil)

		resp, err := service.ListAccounts(ctx, asOf)
		require.NoError(t, err)
		require.Len(t, resp.Accounts, 3)

		first := resp.Accounts[0]
		assert.Equal(t, 3, first.ActiveDeals)
		assert.Equal(t, 35000.0, first.ActiveDealValue)
		require.NotNil(t, first.TopDealStage)
		// negotiation vence discovery e proposal
		assert.Equal(t, "negotiation", *first.TopDealStage)

		second := resp.Accounts[1]
		assert.Equal(t, 1, second.ActiveDeals)
		require.NotNil(t, second.TopDealStage)
		assert.Equal(t, "design", *second.TopDealStage)

		third := resp.Accounts[2]
		assert.Equal(t, 0, third.ActiveDeals)
		assert.Nil(t, third.TopDealStage)
	})

	t.Run("resume o estado de touch do dia", func(t *testing.T) {
		service, m := newAccountService(t)

		m.accountRepo.EXPECT().ListAccountSummaries(ctx, asOf).Return([]*domain.AccountSummary{
			summary(1, "Acuity Insurance", true),
			summary(2, "Epic Systems", true),
			summary(3, "Fiserv", false),
		}, nil)
		m.dealRepo.EXPECT().ListOpen(ctx).Return(nil, nil)

		resp, err := service.ListAccounts(ctx, asOf)
		require.NoError(t, err)

		assert.Equal(t, 3, resp.Summary.Total)
		assert.Equal(t, 2, resp.Summary.TouchedToday)
		assert.Equal(t, 1, resp.Summary.UntouchedToday)
	})

	t.Run("falha de banco devolve erro de database", func(t *testing.T) {
		service, m := newAccountService(t)

		m.accountRepo.EXPECT().ListAccountSummaries(ctx, asOf).Return(nil, errors.New("connection reset"))

		_, err := service.ListAccounts(ctx, asOf)

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrDatabaseOperation, accountErrorCode(t, err))
	})
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()
	asOf := domain.NewDate(2024, time.March, 15)

	t.Run("devolve o detalhe da conta", func(t *testing.T) {
		service, m := newAccountService(t)

		detail := &domain.AccountDetail{
			Account:         domain.Account{ID: 1, Name: "Acuity Insurance"},
			TotalActivities: 12,
			OpenTasks:       2,
		}
		m.accountRepo.EXPECT().GetAccountDetail(ctx, 1, asOf).Return(detail, nil)

		got, err := service.GetAccount(ctx, 1, asOf)

		require.NoError(t, err)
		assert.Equal(t, detail, got)
	})

	t.Run("conta inexistente devolve not found", func(t *testing.T) {
		service, m := newAccountService(t)

		m.accountRepo.EXPECT().GetAccountDetail(ctx, 42, asOf).Return(nil, nil)

		_, err := service.GetAccount(ctx, 42, asOf)

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrAccountNotFound, accountErrorCode(t, err))
	})
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("cria a conta com o nome aparado", func(t *testing.T) {
		service, m := newAccountService(t)

		m.accountRepo.EXPECT().
			CreateAccount(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, req *domain.CreateAccountRequest) (*domain.Account, error) {
				assert.Equal(t, "Oshkosh Corporation", req.Name)
				return &domain.Account{ID: 5, Name: req.Name}, nil
			})

		acc, err := service.CreateAccount(ctx, &domain.CreateAccountRequest{Name: "  Oshkosh Corporation  "})

		require.NoError(t, err)
		assert.Equal(t, 5, acc.ID)
	})

	t.Run("rejeita nome vazio", func(t *testing.T) {
		service, _ := newAccountService(t)

		_, err := service.CreateAccount(ctx, &domain.CreateAccountRequest{Name: "   "})

		require.Error(t, err)
		assert.Equal(t, apiErrors.ErrMissingRequiredData, accountErrorCode(t, err))
	})
}
