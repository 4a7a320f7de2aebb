package pipeline

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de pipeline
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDealNotFound     = errors.New("deal not found")
	ErrNameRequired     = errors.New("deal name is required")
	ErrInvalidDealStage = errors.New("invalid deal stage")

	ErrDatabaseOperation = errors.New("database operation error")
)

// PipelineError é um erro com contexto adicional para deals
type PipelineError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *PipelineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError cria um novo PipelineError
func NewPipelineError(err error, code string, details string) *PipelineError {
	return &PipelineError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
