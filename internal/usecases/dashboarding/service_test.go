package dashboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/account-tracker-api/infrastructure/repository/mocks"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/log"
	"go.uber.org/mock/gomock"
)

func init() {
	log.SetupTestLogger()
}

type dashboardMocks struct {
	accountRepo  *mocks.MockAccountRepository
	activityRepo *mocks.MockActivityRepository
	taskRepo     *mocks.MockTaskRepository
	dealRepo     *mocks.MockDealRepository
	touchRepo    *mocks.MockTouchRepository
}

func newDashboardService(t *testing.T) (DashboardService, *dashboardMocks) {
	ctrl := gomock.NewController(t)

	m := &dashboardMocks{
		accountRepo:  mocks.NewMockAccountRepository(ctrl),
		activityRepo: mocks.NewMockActivityRepository(ctrl),
		taskRepo:     mocks.NewMockTaskRepository(ctrl),
		dealRepo:     mocks.NewMockDealRepository(ctrl),
		touchRepo:    mocks.NewMockTouchRepository(ctrl),
	}

	return NewService(m.accountRepo, m.activityRepo, m.taskRepo, m.dealRepo, m.touchRepo), m
}

// expectBaseMetrics configura as consultas fixas do snapshot; cada teste
// sobrescreve apenas a métrica que está exercitando.
func expectBaseMetrics(ctx context.Context, m *dashboardMocks, asOf, weekStart domain.Date) {
	m.accountRepo.EXPECT().CountAccounts(ctx).Return(13, nil)
	m.touchRepo.EXPECT().CountTouchedOn(ctx, asOf).Return(4, nil)
	m.taskRepo.EXPECT().CountOpen(ctx).Return(6, nil)
	m.taskRepo.EXPECT().CountOverdue(ctx, asOf).Return(2, nil)
	m.touchRepo.EXPECT().CountDistinctAccountsSince(ctx, weekStart).Return(7, nil)
	m.activityRepo.EXPECT().CountSince(ctx, weekStart).Return(19, nil)
	m.dealRepo.EXPECT().SumOpenPipeline(ctx).Return(125000.0, nil)
	m.accountRepo.EXPECT().CountRenewalsBetween(ctx, asOf, asOf.AddDays(30)).Return(3, nil)
}

func TestComputeDashboard(t *testing.T) {
	ctx := context.Background()

	// 2024-03-15 é uma sexta-feira; a segunda da semana é 2024-03-11
	asOf := domain.NewDate(2024, time.March, 15)
	weekStart := domain.NewDate(2024, time.March, 11)

	t.Run("monta o snapshot completo do dia de referência", func(t *testing.T) {
		service, m := newDashboardService(t)

		expectBaseMetrics(ctx, m, asOf, weekStart)
		m.touchRepo.EXPECT().ListTouchDays(ctx, asOf.AddDays(-364)).Return([]domain.Date{
			asOf,
			asOf.AddDays(-1),
			asOf.AddDays(-2),
			// lacuna no dia -3 encerra o streak em 3
			asOf.AddDays(-4),
		}, nil)

		snapshot, err := service.ComputeDashboard(ctx, asOf)
		require.NoError(t, err)

		assert.Equal(t, asOf, snapshot.AsOf)
		assert.Equal(t, 13, snapshot.TotalAccounts)
		assert.Equal(t, 4, snapshot.TouchedToday)
		assert.Equal(t, 9, snapshot.UntouchedToday)
		assert.Equal(t, 6, snapshot.TotalOpenTasks)
		assert.Equal(t, 2, snapshot.OverdueTasks)
		assert.Equal(t, weekStart, snapshot.WeekStart)
		assert.Equal(t, 7, snapshot.WeeklyTouches)
		assert.Equal(t, 19, snapshot.WeeklyActivities)
		assert.Equal(t, 125000.0, snapshot.TotalPipeline)
		assert.Equal(t, 3, snapshot.UpcomingRenewals)
		assert.Equal(t, 3, snapshot.TouchStreak)
	})

	t.Run("sem touch no dia de referência o streak é zero", func(t *testing.T) {
		service, m := newDashboardService(t)

		expectBaseMetrics(ctx, m, asOf, weekStart)
		m.touchRepo.EXPECT().ListTouchDays(ctx, gomock.Any()).Return([]domain.Date{
			asOf.AddDays(-1),
			asOf.AddDays(-2),
		}, nil)

		snapshot, err := service.ComputeDashboard(ctx, asOf)
		require.NoError(t, err)

		assert.Equal(t, 0, snapshot.TouchStreak)
	})

	t.Run("um dia de referência caindo na segunda usa a própria data como início da semana", func(t *testing.T) {
		service, m := newDashboardService(t)

		monday := domain.NewDate(2024, time.March, 11)
		expectBaseMetrics(ctx, m, monday, monday)
		m.touchRepo.EXPECT().ListTouchDays(ctx, gomock.Any()).Return(nil, nil)

		snapshot, err := service.ComputeDashboard(ctx, monday)
		require.NoError(t, err)

		assert.Equal(t, monday, snapshot.WeekStart)
	})

	t.Run("um domingo pertence à semana iniciada na segunda anterior", func(t *testing.T) {
		service, m := newDashboardService(t)

		sunday := domain.NewDate(2024, time.March, 17)
		expectBaseMetrics(ctx, m, sunday, weekStart)
		m.touchRepo.EXPECT().ListTouchDays(ctx, gomock.Any()).Return(nil, nil)

		snapshot, err := service.ComputeDashboard(ctx, sunday)
		require.NoError(t, err)

		assert.Equal(t, weekStart, snapshot.WeekStart)
	})

	t.Run("o streak é limitado pela janela de um ano", func(t *testing.T) {
		service, m := newDashboardService(t)

		days := make([]domain.Date, 0, 365)
		for i := 0; i < 365; i++ {
			days = append(days, asOf.AddDays(-i))
		}

		expectBaseMetrics(ctx, m, asOf, weekStart)
		m.touchRepo.EXPECT().ListTouchDays(ctx, gomock.Any()).Return(days, nil)

		snapshot, err := service.ComputeDashboard(ctx, asOf)
		require.NoError(t, err)

		assert.Equal(t, 365, snapshot.TouchStreak)
	})

	t.Run("falha em qualquer métrica aborta o snapshot", func(t *testing.T) {
		service, m := newDashboardService(t)

		m.accountRepo.EXPECT().CountAccounts(ctx).Return(0, errors.New("connection reset"))

		_, err := service.ComputeDashboard(ctx, asOf)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "total_accounts")
	})
}
