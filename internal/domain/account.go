package domain

import "time"

type Account struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Industry    *string   `json:"industry"`
	Location    *string   `json:"location"`
	RenewalDate *Date     `json:"renewal_date"`
	AnnualValue *float64  `json:"annual_value"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountSummary é a linha da listagem de contas: a conta acrescida do
// estado de touch do dia e dos agregados de engajamento e pipeline.
type AccountSummary struct {
	Account
	TouchedToday       bool     `json:"touched_today"`
	TodayActivityCount int      `json:"today_activity_count"`
	OpenTasks          int      `json:"open_tasks"`
	LastActivityDate   *Date    `json:"last_activity_date"`
	LastActivityNote   *string  `json:"last_activity_description"`
	ActiveDeals        int      `json:"active_deals"`
	ActiveDealValue    float64  `json:"active_deal_value"`
	TopDealStage       *string  `json:"top_deal_stage"`
}

// AccountDetail é a visão individual da conta, com totais históricos
type AccountDetail struct {
	Account
	TouchedToday    bool `json:"touched_today"`
	TotalActivities int  `json:"total_activities"`
	OpenTasks       int  `json:"open_tasks"`
	TotalNotes      int  `json:"total_notes"`
}

type AccountListResponse struct {
	Accounts []*AccountSummary  `json:"accounts"`
	Summary  AccountListSummary `json:"summary"`
}

type AccountListSummary struct {
	Total          int `json:"total"`
	TouchedToday   int `json:"touched_today"`
	UntouchedToday int `json:"untouched_today"`
}

type CreateAccountRequest struct {
	Name        string   `json:"name"`
	Industry    *string  `json:"industry"`
	Location    *string  `json:"location"`
	RenewalDate *Date    `json:"renewal_date"`
	AnnualValue *float64 `json:"annual_value"`
}

type UpdateAccountRequest struct {
	ID          int            `json:"-"`
	Name        OptionalString `json:"name"`
	Industry    OptionalString `json:"industry"`
	Location    OptionalString `json:"location"`
	RenewalDate OptionalDate   `json:"renewal_date"`
	AnnualValue OptionalFloat  `json:"annual_value"`
}
