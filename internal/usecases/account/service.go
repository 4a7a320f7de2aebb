package account

import (
	"context"
	"strings"

	"github.com/vfg2006/account-tracker-api/infrastructure/repository"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
	"github.com/vfg2006/account-tracker-api/pkg/log"
	"github.com/vfg2006/account-tracker-api/pkg/utils"
)

type AccountService interface {
	ListAccounts(ctx context.Context, asOf domain.Date) (*domain.AccountListResponse, error)
	GetAccount(ctx context.Context, accountID int, asOf domain.Date) (*domain.AccountDetail, error)
	CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.Account, error)
	UpdateAccount(ctx context.Context, req *domain.UpdateAccountRequest) (*domain.Account, error)

	ListContacts(ctx context.Context, accountID int) ([]*domain.Contact, error)
	CreateContact(ctx context.Context, req *domain.CreateContactRequest) (*domain.Contact, error)
	UpdateContact(ctx context.Context, req *domain.UpdateContactRequest) (*domain.Contact, error)
	DeleteContact(ctx context.Context, contactID int) error
}

type Service struct {
	accountRepository repository.AccountRepository
	dealRepository    repository.DealRepository
	contactRepository repository.ContactRepository
}

func NewService(
	accountRepository repository.AccountRepository,
	dealRepository repository.DealRepository,
	contactRepository repository.ContactRepository,
) AccountService {
	return &Service{
		accountRepository: accountRepository,
		dealRepository:    dealRepository,
		contactRepository: contactRepository,
	}
}

// dealAggregate acumula os agregados de pipeline de uma conta
type dealAggregate struct {
	count  int
	value  float64
	stages []domain.DealStage
}

// ListAccounts devolve todas as contas com o estado de touch do dia e os
// agregados de pipeline. Os deals abertos são agrupados por conta aqui,
// para que a escolha do estágio líder fique em um único lugar.
func (s *Service) ListAccounts(ctx context.Context, asOf domain.Date) (*domain.AccountListResponse, error) {
	summaries, err := s.accountRepository.ListAccountSummaries(ctx, asOf)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao listar contas")
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar contas no banco de dados")
	}

	openDeals, err := s.dealRepository.ListOpen(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao listar deals abertos")
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar deals no banco de dados")
	}

	aggregates := make(map[int]*dealAggregate)
	for _, deal := range openDeals {
		agg, ok := aggregates[deal.AccountID]
		if !ok {
			agg = &dealAggregate{}
			aggregates[deal.AccountID] = agg
		}
		agg.count++
		if deal.Value != nil {
			agg.value += *deal.Value
		}
		agg.stages = append(agg.stages, deal.Stage)
	}

	touched := 0
	for _, summary := range summaries {
		if summary.TouchedToday {
			touched++
		}
		if agg, ok := aggregates[summary.ID]; ok {
			summary.ActiveDeals = agg.count
			summary.ActiveDealValue = utils.RoundWithTwoDecimalPlace(agg.value)
			if leading := domain.LeadingStage(agg.stages); leading != nil {
				stage := string(*leading)
				summary.TopDealStage = &stage
			}
		}
	}

	return &domain.AccountListResponse{
		Accounts: summaries,
		Summary: domain.AccountListSummary{
			Total:          len(summaries),
			TouchedToday:   touched,
			UntouchedToday: len(summaries) - touched,
		},
	}, nil
}

func (s *Service) GetAccount(ctx context.Context, accountID int, asOf domain.Date) (*domain.AccountDetail, error) {
	detail, err := s.accountRepository.GetAccountDetail(ctx, accountID, asOf)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Falha ao buscar conta %d", accountID)
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar conta no banco de dados")
	}

	if detail == nil {
		return nil, NewAccountError(ErrAccountNotFound, apiErrors.ErrAccountNotFound, "Conta não encontrada")
	}

	return detail, nil
}

func (s *Service) CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.Account, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, NewAccountError(ErrNameRequired, apiErrors.ErrMissingRequiredData, "O nome da conta é obrigatório")
	}

	acc, err := s.accountRepository.CreateAccount(ctx, req)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao criar conta")
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao criar conta no banco de dados")
	}

	return acc, nil
}

// UpdateAccount aplica um patch parcial. Campos ausentes do JSON não são
// alterados; campos presentes com null são limpos. O nome nunca pode ser
// limpo nem ficar vazio.
func (s *Service) UpdateAccount(ctx context.Context, req *domain.UpdateAccountRequest) (*domain.Account, error) {
	if req.Name.Set {
		if !req.Name.Valid || strings.TrimSpace(req.Name.Value) == "" {
			return nil, NewAccountError(ErrNameRequired, apiErrors.ErrMissingRequiredData, "O nome da conta não pode ser vazio")
		}
		req.Name.Value = strings.TrimSpace(req.Name.Value)
	}

	err := s.accountRepository.UpdateAccount(ctx, req)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, NewAccountError(ErrAccountNotFound, apiErrors.ErrAccountNotFound, "Conta não encontrada")
		}
		log.ForContext(ctx).WithError(err).Errorf("Falha ao atualizar conta %d", req.ID)
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao atualizar conta no banco de dados")
	}

	acc, err := s.accountRepository.GetAccountByID(ctx, req.ID)
	if err != nil {
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao reler conta atualizada")
	}
	if acc == nil {
		return nil, NewAccountError(ErrAccountNotFound, apiErrors.ErrAccountNotFound, "Conta não encontrada")
	}

	return acc, nil
}

func (s *Service) ListContacts(ctx context.Context, accountID int) ([]*domain.Contact, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	contacts, err := s.contactRepository.ListByAccount(ctx, accountID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Falha ao listar contatos da conta %d", accountID)
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar contatos no banco de dados")
	}

	return contacts, nil
}

func (s *Service) CreateContact(ctx context.Context, req *domain.CreateContactRequest) (*domain.Contact, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, NewAccountError(ErrContactNameRequired, apiErrors.ErrMissingRequiredData, "O nome do contato é obrigatório")
	}

	if err := s.requireAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}

	contact := &domain.Contact{
		AccountID: req.AccountID,
		Name:      req.Name,
		Role:      req.Role,
		Email:     req.Email,
		Phone:     req.Phone,
	}

	if err := s.contactRepository.InsertContact(ctx, contact); err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao criar contato")
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao criar contato no banco de dados")
	}

	return contact, nil
}

func (s *Service) UpdateContact(ctx context.Context, req *domain.UpdateContactRequest) (*domain.Contact, error) {
	contact, err := s.contactRepository.GetContactByID(ctx, req.ID)
	if err != nil {
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar contato no banco de dados")
	}
	if contact == nil {
		return nil, NewAccountError(ErrContactNotFound, apiErrors.ErrContactNotFound, "Contato não encontrado")
	}

	if req.Name.Set {
		if !req.Name.Valid || strings.TrimSpace(req.Name.Value) == "" {
			return nil, NewAccountError(ErrContactNameRequired, apiErrors.ErrMissingRequiredData, "O nome do contato não pode ser vazio")
		}
		contact.Name = strings.TrimSpace(req.Name.Value)
	}
	if req.Role.Set {
		contact.Role = optionalStringValue(req.Role)
	}
	if req.Email.Set {
		contact.Email = optionalStringValue(req.Email)
	}
	if req.Phone.Set {
		contact.Phone = optionalStringValue(req.Phone)
	}

	if err := s.contactRepository.UpdateContact(ctx, contact); err != nil {
		if err == repository.ErrNotFound {
			return nil, NewAccountError(ErrContactNotFound, apiErrors.ErrContactNotFound, "Contato não encontrado")
		}
		log.ForContext(ctx).WithError(err).Errorf("Falha ao atualizar contato %d", req.ID)
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao atualizar contato no banco de dados")
	}

	return contact, nil
}

func (s *Service) DeleteContact(ctx context.Context, contactID int) error {
	contact, err := s.contactRepository.GetContactByID(ctx, contactID)
	if err != nil {
		return NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar contato no banco de dados")
	}
	if contact == nil {
		return NewAccountError(ErrContactNotFound, apiErrors.ErrContactNotFound, "Contato não encontrado")
	}

	if err := s.contactRepository.DeleteContact(ctx, contactID); err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Falha ao excluir contato %d", contactID)
		return NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao excluir contato no banco de dados")
	}

	return nil
}

func (s *Service) requireAccount(ctx context.Context, accountID int) error {
	acc, err := s.accountRepository.GetAccountByID(ctx, accountID)
	if err != nil {
		return NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar conta no banco de dados")
	}
	if acc == nil {
		return NewAccountError(ErrAccountNotFound, apiErrors.ErrAccountNotFound, "Conta não encontrada")
	}
	return nil
}

func optionalStringValue(o domain.OptionalString) *string {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
