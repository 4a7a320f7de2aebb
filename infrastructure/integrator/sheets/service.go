package sheets

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/account-tracker-api/infrastructure/integrator/sheets/sheetsclient"
	"github.com/vfg2006/account-tracker-api/internal/config"
)

// SheetsIntegrator é a fachada consumida pelo orquestrador de sync.
// Ready falha com domain.ErrNotConfigured quando o destino não está
// configurado; as demais operações devolvem domain.RemoteError em
// falhas de comunicação.
type SheetsIntegrator interface {
	Ready(ctx context.Context) error
	PrepareSheet(ctx context.Context, title string, headers []string) error
	AppendRows(ctx context.Context, title string, rows [][]interface{}) (int64, error)
}

type Service struct {
	cfg config.Sheets

	mu     sync.Mutex
	client *sheetsclient.Client
}

func New(cfg *config.Config) SheetsIntegrator {
	return &Service{
		cfg: cfg.Sheets,
	}
}

// ensureClient constrói o client na primeira utilização. A construção é
// adiada para que o processo suba mesmo sem credenciais; cada execução
// de sync valida a configuração via Ready antes de tocar qualquer fase.
func (s *Service) ensureClient(ctx context.Context) (*sheetsclient.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	client, err := sheetsclient.NewClient(ctx, s.cfg)
	if err != nil {
		return nil, err
	}

	logrus.Info("Client do Google Sheets inicializado")
	s.client = client

	return client, nil
}

func (s *Service) Ready(ctx context.Context) error {
	_, err := s.ensureClient(ctx)
	return err
}

// PrepareSheet garante a aba e grava o cabeçalho apenas quando a aba
// está vazia; linhas existentes nunca são sobrescritas.
func (s *Service) PrepareSheet(ctx context.Context, title string, headers []string) error {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return err
	}

	if err := client.EnsureSheet(ctx, title); err != nil {
		return err
	}

	hasHeader, err := client.HasHeader(ctx, title)
	if err != nil {
		return err
	}

	if hasHeader {
		return nil
	}

	return client.WriteHeader(ctx, title, headers)
}

func (s *Service) AppendRows(ctx context.Context, title string, rows [][]interface{}) (int64, error) {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return 0, err
	}

	return client.AppendRows(ctx, title, rows)
}
