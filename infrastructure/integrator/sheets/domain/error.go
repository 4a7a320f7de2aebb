package domain

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indica que o destino do espelhamento não está
// configurado (spreadsheet id ou credenciais ausentes). É terminal para
// a execução: não há retry automático até a configuração mudar.
var ErrNotConfigured = errors.New("sheets mirror not configured")

// RemoteError encapsula falhas de comunicação com a API do Google
// Sheets. Uma fase que falha com RemoteError fica elegível para retry
// na próxima execução do sync.
type RemoteError struct {
	Op    string
	Sheet string
	Err   error
}

func (e *RemoteError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("sheets %s failed for tab %q: %v", e.Op, e.Sheet, e.Err)
	}
	return fmt.Sprintf("sheets %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func NewRemoteError(op, sheet string, err error) *RemoteError {
	return &RemoteError{
		Op:    op,
		Sheet: sheet,
		Err:   err,
	}
}

// IsRemote informa se o erro veio da API remota
func IsRemote(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}
