package domain

import "time"

type DealStage string

const (
	StageDiscovery   DealStage = "discovery"
	StageDesign      DealStage = "design"
	StageProposal    DealStage = "proposal"
	StageNegotiation DealStage = "negotiation"
	StageClosedWon   DealStage = "closed_won"
	StageClosedLost  DealStage = "closed_lost"
)

var validDealStages = map[DealStage]struct{}{
	StageDiscovery:   {},
	StageDesign:      {},
	StageProposal:    {},
	StageNegotiation: {},
	StageClosedWon:   {},
	StageClosedLost:  {},
}

func (s DealStage) Valid() bool {
	_, ok := validDealStages[s]
	return ok
}

func (s DealStage) Closed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// stagePriority ordena os estágios abertos do mais avançado para o menos
// avançado. Desempate da listagem de contas: o estágio mais avançado vence.
var stagePriority = map[DealStage]int{
	StageNegotiation: 4,
	StageProposal:    3,
	StageDesign:      2,
	StageDiscovery:   1,
}

// LeadingStage devolve o estágio mais avançado dentre os deals abertos
// informados, ou nil quando não há nenhum deal aberto.
func LeadingStage(stages []DealStage) *DealStage {
	var leading *DealStage
	best := 0
	for _, stage := range stages {
		priority, open := stagePriority[stage]
		if !open {
			continue
		}
		if priority > best {
			best = priority
			s := stage
			leading = &s
		}
	}
	return leading
}

// Deal pertence a uma conta. Invariante: ClosedAt está preenchido se e
// somente se o estágio é closed_won ou closed_lost; reabrir limpa ClosedAt.
type Deal struct {
	ID        int        `json:"id"`
	AccountID int        `json:"account_id"`
	Name      string     `json:"name"`
	Stage     DealStage  `json:"stage"`
	Value     *float64   `json:"value"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	Synced    bool       `json:"synced_to_sheets"`
}

type CreateDealRequest struct {
	AccountID int       `json:"account_id"`
	Name      string    `json:"name"`
	Stage     DealStage `json:"stage"`
	Value     *float64  `json:"value"`
}

type UpdateDealRequest struct {
	ID    int            `json:"-"`
	Name  OptionalString `json:"name"`
	Stage OptionalString `json:"stage"`
	Value OptionalFloat  `json:"value"`
}
