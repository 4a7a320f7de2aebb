package dashboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/account-tracker-api/infrastructure/repository"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/log"
	"github.com/vfg2006/account-tracker-api/pkg/utils"
)

// streakWindowDays limita a janela do cálculo de streak
const streakWindowDays = 365

// renewalWindowDays é o horizonte de renovações próximas do dashboard
const renewalWindowDays = 30

// DashboardService calcula o snapshot de métricas do dia de referência.
// As métricas são independentes entre si; a falha de qualquer consulta
// aborta o snapshot inteiro.
type DashboardService interface {
	ComputeDashboard(ctx context.Context, asOf domain.Date) (*domain.DashboardSnapshot, error)
}

type Service struct {
	accountRepository  repository.AccountRepository
	activityRepository repository.ActivityRepository
	taskRepository     repository.TaskRepository
	dealRepository     repository.DealRepository
	touchRepository    repository.TouchRepository
}

func NewService(
	accountRepository repository.AccountRepository,
	activityRepository repository.ActivityRepository,
	taskRepository repository.TaskRepository,
	dealRepository repository.DealRepository,
	touchRepository repository.TouchRepository,
) DashboardService {
	return &Service{
		accountRepository:  accountRepository,
		activityRepository: activityRepository,
		taskRepository:     taskRepository,
		dealRepository:     dealRepository,
		touchRepository:    touchRepository,
	}
}

func (s *Service) ComputeDashboard(ctx context.Context, asOf domain.Date) (*domain.DashboardSnapshot, error) {
	totalAccounts, err := s.accountRepository.CountAccounts(ctx)
	if err != nil {
		return nil, s.fail(ctx, "total_accounts", err)
	}

	touchedToday, err := s.touchRepository.CountTouchedOn(ctx, asOf)
	if err != nil {
		return nil, s.fail(ctx, "touched_today", err)
	}

	openTasks, err := s.taskRepository.CountOpen(ctx)
	if err != nil {
		return nil, s.fail(ctx, "open_tasks", err)
	}

	overdueTasks, err := s.taskRepository.CountOverdue(ctx, asOf)
	if err != nil {
		return nil, s.fail(ctx, "overdue_tasks", err)
	}

	weekStart := domain.DateOf(utils.WeekStart(asOf.Time))

	weeklyTouches, err := s.touchRepository.CountDistinctAccountsSince(ctx, weekStart)
	if err != nil {
		return nil, s.fail(ctx, "weekly_touches", err)
	}

	weeklyActivities, err := s.activityRepository.CountSince(ctx, weekStart)
	if err != nil {
		return nil, s.fail(ctx, "weekly_activities", err)
	}

	totalPipeline, err := s.dealRepository.SumOpenPipeline(ctx)
	if err != nil {
		return nil, s.fail(ctx, "total_pipeline", err)
	}

	upcomingRenewals, err := s.accountRepository.CountRenewalsBetween(ctx, asOf, asOf.AddDays(renewalWindowDays))
	if err != nil {
		return nil, s.fail(ctx, "upcoming_renewals", err)
	}

	streak, err := s.touchStreak(ctx, asOf)
	if err != nil {
		return nil, s.fail(ctx, "touch_streak", err)
	}

	return &domain.DashboardSnapshot{
		AsOf:             asOf,
		TotalAccounts:    totalAccounts,
		TouchedToday:     touchedToday,
		UntouchedToday:   totalAccounts - touchedToday,
		TotalOpenTasks:   openTasks,
		OverdueTasks:     overdueTasks,
		WeekStart:        weekStart,
		WeeklyTouches:    weeklyTouches,
		WeeklyActivities: weeklyActivities,
		TotalPipeline:    utils.RoundWithTwoDecimalPlace(totalPipeline),
		UpcomingRenewals: upcomingRenewals,
		TouchStreak:      streak,
	}, nil
}

// touchStreak conta os dias consecutivos terminando em asOf com ao menos
// um touch em qualquer conta. Sem touch em asOf o streak é zero; a
// caminhada para trás para na primeira lacuna ou no limite da janela.
func (s *Service) touchStreak(ctx context.Context, asOf domain.Date) (int, error) {
	from := asOf.AddDays(-(streakWindowDays - 1))

	days, err := s.touchRepository.ListTouchDays(ctx, from)
	if err != nil {
		return 0, err
	}

	touchedDays := make(map[string]struct{}, len(days))
	for _, day := range days {
		touchedDays[day.String()] = struct{}{}
	}

	streak := 0
	cursor := asOf
	for streak < streakWindowDays {
		if _, ok := touchedDays[cursor.String()]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDays(-1)
	}

	return streak, nil
}

func (s *Service) fail(ctx context.Context, metric string, err error) error {
	log.ForContext(ctx).WithError(err).Errorf("Falha ao calcular métrica %s do dashboard", metric)
	return fmt.Errorf("failed to compute dashboard metric %s: %w", metric, err)
}

// Today devolve o dia de referência padrão do dashboard
func Today() domain.Date {
	return domain.DateOf(time.Now())
}
