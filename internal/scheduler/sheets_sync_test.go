package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/account-tracker-api/internal/config"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/internal/usecases/syncing"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
)

type fakeSyncService struct {
	calls  int
	result *domain.SyncResult
	err    error
}

func (f *fakeSyncService) FullSync(ctx context.Context) (*domain.SyncResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeSyncService) Status(ctx context.Context) (*domain.SyncStatus, error) {
	return &domain.SyncStatus{}, nil
}

func newTestScheduler(sync *fakeSyncService, enabled bool) *SheetsSyncService {
	cfg := &config.Config{
		SheetsSync: config.SheetsSync{
			CronSchedule: "0 18 * * *",
			Enabled:      enabled,
		},
	}
	return NewSheetsSyncService(sync, cfg)
}

func TestSheetsSyncServiceStart(t *testing.T) {
	t.Run("desabilitado por configuração não agenda nada", func(t *testing.T) {
		sync := &fakeSyncService{}
		service := newTestScheduler(sync, false)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		assert.NoError(t, service.Start(ctx))
		assert.Zero(t, service.scheduler.Len())
	})

	t.Run("habilitado registra o job no cron", func(t *testing.T) {
		sync := &fakeSyncService{result: &domain.SyncResult{}}
		service := newTestScheduler(sync, true)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		assert.NoError(t, service.Start(ctx))
		assert.Equal(t, 1, service.scheduler.Len())

		service.scheduler.Stop()
	})
}

func TestSheetsSyncServiceRunNow(t *testing.T) {
	t.Run("dispara o sync imediatamente", func(t *testing.T) {
		sync := &fakeSyncService{result: &domain.SyncResult{RunID: "abc123", Success: true}}
		service := newTestScheduler(sync, true)

		service.RunNow(context.Background())

		assert.Equal(t, 1, sync.calls)
	})

	t.Run("execução sobreposta é ignorada sem enfileirar", func(t *testing.T) {
		sync := &fakeSyncService{
			result: &domain.SyncResult{AlreadyRunning: true},
			err: syncing.NewSyncError(
				syncing.ErrAlreadyRunning,
				apiErrors.ErrSyncAlreadyRunning,
				"Já existe uma execução de sync em andamento",
			),
		}
		service := newTestScheduler(sync, true)

		service.RunNow(context.Background())
		service.RunNow(context.Background())

		assert.Equal(t, 2, sync.calls)
	})
}
