package repository

import "errors"

// ErrNotFound é devolvido quando um update ou delete não afeta nenhuma
// linha, ou quando uma busca por ID não encontra o registro.
var ErrNotFound = errors.New("record not found")
