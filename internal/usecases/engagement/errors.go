package engagement

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de engajamento
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrInvalidActivityType = errors.New("invalid activity type")
	ErrDescriptionRequired = errors.New("description is required")
	ErrContentRequired     = errors.New("note content is required")
	ErrTitleRequired       = errors.New("task title is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidDate         = errors.New("invalid date")

	ErrDatabaseOperation = errors.New("database operation error")
)

// EngagementError é um erro com contexto adicional para engajamento
type EngagementError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *EngagementError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *EngagementError) Unwrap() error {
	return e.Err
}

// NewEngagementError cria um novo EngagementError
func NewEngagementError(err error, code string, details string) *EngagementError {
	return &EngagementError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
