package domain

import "time"

// Projeções usadas pelo espelhamento para a planilha: cada linha carrega
// o nome da conta resolvido, pronto para virar uma linha da aba de destino.

type SyncActivityRow struct {
	ID           int
	AccountName  string
	ActivityType ActivityType
	Description  string
	ActivityDate Date
	CreatedAt    time.Time
}

type SyncTaskRow struct {
	ID          int
	AccountName string
	Title       string
	Description *string
	DueDate     *Date
	Status      TaskStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type SyncNoteRow struct {
	ID          int
	AccountName string
	Content     string
	NoteDate    Date
	CreatedAt   time.Time
}

type SyncDealRow struct {
	ID          int
	AccountName string
	Name        string
	Stage       DealStage
	Value       *float64
	CreatedAt   time.Time
	ClosedAt    *time.Time
}

// SyncResult é o resultado agregado de uma execução completa do sync
type SyncResult struct {
	RunID            string    `json:"run_id"`
	Success          bool      `json:"success"`
	AlreadyRunning   bool      `json:"already_running,omitempty"`
	ActivitiesSynced int       `json:"activities_synced"`
	TasksSynced      int       `json:"tasks_synced"`
	NotesSynced      int       `json:"notes_synced"`
	DealsSynced      int       `json:"deals_synced"`
	TotalSynced      int       `json:"total_synced"`
	SyncedAt         time.Time `json:"synced_at"`
}

// SyncStatus expõe o tamanho da fila de itens ainda não espelhados
type SyncStatus struct {
	UnsyncedActivities int        `json:"unsynced_activities"`
	UnsyncedTasks      int        `json:"unsynced_tasks"`
	UnsyncedNotes      int        `json:"unsynced_notes"`
	UnsyncedDeals      int        `json:"unsynced_deals"`
	TotalUnsynced      int        `json:"total_unsynced"`
	LastRunStartedAt   *time.Time `json:"last_run_started_at,omitempty"`
	LastRunCompletedAt *time.Time `json:"last_run_completed_at,omitempty"`
}
