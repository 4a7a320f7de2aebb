package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro expostos pela API
const (
	// Erros de autenticação
	ErrInvalidCredentials    = "AUTH_001" // Credenciais inválidas
	ErrUserDisabled          = "AUTH_002" // Usuário desativado
	ErrUserNotFound          = "AUTH_003" // Usuário não encontrado
	ErrInvalidToken          = "AUTH_004" // Token inválido
	ErrInsufficientPrivilege = "AUTH_005" // Privilégios insuficientes
	ErrUserAlreadyExists     = "AUTH_006" // Usuário já existe

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros de registro não encontrado
	ErrAccountNotFound = "NF_001" // Conta não encontrada
	ErrTaskNotFound    = "NF_002" // Task não encontrada
	ErrDealNotFound    = "NF_003" // Deal não encontrado
	ErrContactNotFound = "NF_004" // Contato não encontrado

	// Erros do espelhamento para a planilha
	ErrSyncRemote         = "SYNC_001" // Falha de comunicação com o Google Sheets
	ErrSyncNotConfigured  = "SYNC_002" // Destino do espelhamento não configurado
	ErrSyncAlreadyRunning = "SYNC_003" // Já existe uma execução de sync em andamento

	// Erros do servidor
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrUserDisabled:          http.StatusForbidden,
	ErrUserNotFound:          http.StatusNotFound,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrUserAlreadyExists:     http.StatusBadRequest,

	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,

	ErrAccountNotFound: http.StatusNotFound,
	ErrTaskNotFound:    http.StatusNotFound,
	ErrDealNotFound:    http.StatusNotFound,
	ErrContactNotFound: http.StatusNotFound,

	ErrSyncRemote:         http.StatusBadGateway,
	ErrSyncNotConfigured:  http.StatusServiceUnavailable,
	ErrSyncAlreadyRunning: http.StatusConflict,

	ErrInternalServer:    http.StatusInternalServerError,
	ErrDatabaseOperation: http.StatusInternalServerError,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}
