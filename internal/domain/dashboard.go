package domain

// DashboardSnapshot agrega as métricas do dia de referência.
// Todas as métricas são independentes entre si e calculadas a partir
// do touch ledger e das tabelas de tasks, activities, deals e contas.
type DashboardSnapshot struct {
	AsOf           Date `json:"as_of"`
	TotalAccounts  int  `json:"total_accounts"`
	TouchedToday   int  `json:"touched_today"`
	UntouchedToday int  `json:"untouched_today"`

	TotalOpenTasks int `json:"total_open_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`

	// WeekStart é a segunda-feira mais recente em ou antes de AsOf
	WeekStart        Date `json:"week_start"`
	WeeklyTouches    int  `json:"weekly_touches"`
	WeeklyActivities int  `json:"weekly_activities"`

	TotalPipeline    float64 `json:"total_pipeline"`
	UpcomingRenewals int     `json:"upcoming_renewals"`

	// TouchStreak conta dias consecutivos terminando em AsOf com ao menos
	// um evento de engajamento no sistema, limitado a 365 dias
	TouchStreak int `json:"touch_streak"`
}
