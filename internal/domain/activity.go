package domain

import "time"

type ActivityType string

const (
	ActivityCall        ActivityType = "call"
	ActivityEmail       ActivityType = "email"
	ActivityMeeting     ActivityType = "meeting"
	ActivityResearch    ActivityType = "research"
	ActivityEventInvite ActivityType = "event_invite"
	ActivityInternal    ActivityType = "internal"
	ActivityOther       ActivityType = "other"
)

var validActivityTypes = map[ActivityType]struct{}{
	ActivityCall:        {},
	ActivityEmail:       {},
	ActivityMeeting:     {},
	ActivityResearch:    {},
	ActivityEventInvite: {},
	ActivityInternal:    {},
	ActivityOther:       {},
}

func (t ActivityType) Valid() bool {
	_, ok := validActivityTypes[t]
	return ok
}

// Activity é um evento de engajamento datado contra uma conta.
// ActivityDate é o dia em que o evento conta para o touch tracking,
// independente do instante de criação do registro.
type Activity struct {
	ID           int          `json:"id"`
	AccountID    int          `json:"account_id"`
	ActivityType ActivityType `json:"activity_type"`
	Description  string       `json:"description"`
	ActivityDate Date         `json:"activity_date"`
	CreatedAt    time.Time    `json:"created_at"`
	Synced       bool         `json:"synced_to_sheets"`
}

type CreateActivityRequest struct {
	AccountID    int          `json:"account_id"`
	ActivityType ActivityType `json:"activity_type"`
	Description  string       `json:"description"`
	ActivityDate *Date        `json:"activity_date"`
}
