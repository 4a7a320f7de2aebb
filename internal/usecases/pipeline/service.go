package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/vfg2006/account-tracker-api/infrastructure/repository"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
	"github.com/vfg2006/account-tracker-api/pkg/log"
)

// PipelineService mantém os deals de cada conta. Invariante de
// fechamento: closed_at está preenchido se e somente se o estágio é
// closed_won ou closed_lost; reabrir um deal limpa o timestamp.
type PipelineService interface {
	CreateDeal(ctx context.Context, req *domain.CreateDealRequest) (*domain.Deal, error)
	UpdateDeal(ctx context.Context, req *domain.UpdateDealRequest) (*domain.Deal, error)
	DeleteDeal(ctx context.Context, dealID int) error
	ListDeals(ctx context.Context, accountID int) ([]*domain.Deal, error)
}

type Service struct {
	accountRepository repository.AccountRepository
	dealRepository    repository.DealRepository

	// now é substituível em testes
	now func() time.Time
}

func NewService(
	accountRepository repository.AccountRepository,
	dealRepository repository.DealRepository,
) *Service {
	return &Service{
		accountRepository: accountRepository,
		dealRepository:    dealRepository,
		now:               time.Now,
	}
}

func (s *Service) CreateDeal(ctx context.Context, req *domain.CreateDealRequest) (*domain.Deal, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, NewPipelineError(ErrNameRequired, apiErrors.ErrMissingRequiredData, "O nome do deal é obrigatório")
	}

	if req.Stage == "" {
		req.Stage = domain.StageDiscovery
	}
	if !req.Stage.Valid() {
		return nil, NewPipelineError(ErrInvalidDealStage, apiErrors.ErrInvalidFormat, "Estágio de deal desconhecido")
	}

	if err := s.requireAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}

	deal := &domain.Deal{
		AccountID: req.AccountID,
		Name:      req.Name,
		Stage:     req.Stage,
		Value:     req.Value,
	}

	// um deal criado já fechado recebe closed_at imediatamente
	if deal.Stage.Closed() {
		closedAt := s.now()
		deal.ClosedAt = &closedAt
	}

	if err := s.dealRepository.InsertDeal(ctx, deal); err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao criar deal")
		return nil, NewPipelineError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao criar deal no banco de dados")
	}

	return deal, nil
}

// UpdateDeal aplica um patch parcial sobre o deal e mantém coerente o
// par (stage, closed_at) em qualquer transição.
func (s *Service) UpdateDeal(ctx context.Context, req *domain.UpdateDealRequest) (*domain.Deal, error) {
	deal, err := s.dealRepository.GetDealByID(ctx, req.ID)
	if err != nil {
		return nil, NewPipelineError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar deal no banco de dados")
	}
	if deal == nil {
		return nil, NewPipelineError(ErrDealNotFound, apiErrors.ErrDealNotFound, "Deal não encontrado")
	}

	if req.Name.Set {
		if !req.Name.Valid || strings.TrimSpace(req.Name.Value) == "" {
			return nil, NewPipelineError(ErrNameRequired, apiErrors.ErrMissingRequiredData, "O nome do deal não pode ser vazio")
		}
		deal.Name = strings.TrimSpace(req.Name.Value)
	}

	if req.Value.Set {
		if req.Value.Valid {
			value := req.Value.Value
			deal.Value = &value
		} else {
			deal.Value = nil
		}
	}

	if req.Stage.Set {
		if !req.Stage.Valid {
			return nil, NewPipelineError(ErrInvalidDealStage, apiErrors.ErrInvalidFormat, "O estágio do deal não pode ser null")
		}

		newStage := domain.DealStage(req.Stage.Value)
		if !newStage.Valid() {
			return nil, NewPipelineError(ErrInvalidDealStage, apiErrors.ErrInvalidFormat, "Estágio de deal desconhecido")
		}

		if newStage != deal.Stage {
			wasClosed := deal.Stage.Closed()
			deal.Stage = newStage

			switch {
			case newStage.Closed() && !wasClosed:
				closedAt := s.now()
				deal.ClosedAt = &closedAt
			case newStage.Closed() && wasClosed:
				// closed_won <-> closed_lost preserva o timestamp original
			default:
				deal.ClosedAt = nil
			}
		}
	}

	if err := s.dealRepository.UpdateDeal(ctx, deal); err != nil {
		if err == repository.ErrNotFound {
			return nil, NewPipelineError(ErrDealNotFound, apiErrors.ErrDealNotFound, "Deal não encontrado")
		}
		log.ForContext(ctx).WithError(err).Errorf("Falha ao atualizar deal %d", req.ID)
		return nil, NewPipelineError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao atualizar deal no banco de dados")
	}

	return deal, nil
}

func (s *Service) DeleteDeal(ctx context.Context, dealID int) error {
	deal, err := s.dealRepository.GetDealByID(ctx, dealID)
	if err != nil {
		return NewPipelineError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar deal no banco de dados")
	}
	if deal == nil {
		return NewPipelineError(ErrDealNotFound, apiErrors.ErrDealNotFound, "Deal não encontrado")
	}

	if err := s.dealRepository.DeleteDeal(ctx, dealID); err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Falha ao excluir deal %d", dealID)
		return NewPipelineError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao excluir deal no banco de dados")
	}

	return nil
}

func (s *Service) ListDeals(ctx context.Context, accountID int) ([]*domain.Deal, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	deals, err := s.dealRepository.ListByAccount(ctx, accountID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Falha ao listar deals da conta %d", accountID)
		return nil, NewPipelineError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar deals no banco de dados")
	}

	return deals, nil
}

func (s *Service) requireAccount(ctx context.Context, accountID int) error {
	acc, err := s.accountRepository.GetAccountByID(ctx, accountID)
	if err != nil {
		return NewPipelineError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar conta no banco de dados")
	}
	if acc == nil {
		return NewPipelineError(ErrAccountNotFound, apiErrors.ErrAccountNotFound, "Conta não encontrada")
	}
	return nil
}
