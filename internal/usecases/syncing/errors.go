package syncing

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de sync
var (
	ErrAlreadyRunning = errors.New("sync already running")
	ErrNotConfigured  = errors.New("sheets destination not configured")
	ErrRemoteFailure  = errors.New("sheets remote failure")

	ErrDatabaseOperation = errors.New("database operation error")
)

// SyncError é um erro com contexto adicional para o espelhamento
type SyncError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Phase   string // Fase do sync em que o erro ocorreu (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *SyncError) Error() string {
	if e.Phase != "" {
		return fmt.Sprintf("%s (phase %s): %s", e.Err.Error(), e.Phase, e.Details)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError cria um novo SyncError
func NewSyncError(err error, code string, details string) *SyncError {
	return &SyncError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewSyncPhaseError cria um SyncError associado a uma fase
func NewSyncPhaseError(err error, code string, phase string, details string) *SyncError {
	return &SyncError{
		Err:     err,
		Code:    code,
		Phase:   phase,
		Details: details,
	}
}
