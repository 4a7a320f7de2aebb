package apiErrors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantStatus int
	}{
		{"conta não encontrada vira 404", ErrAccountNotFound, http.StatusNotFound},
		{"dados ausentes viram 400", ErrMissingRequiredData, http.StatusBadRequest},
		{"sync em andamento vira 409", ErrSyncAlreadyRunning, http.StatusConflict},
		{"sync não configurado vira 503", ErrSyncNotConfigured, http.StatusServiceUnavailable},
		{"falha remota do sync vira 502", ErrSyncRemote, http.StatusBadGateway},
		{"código desconhecido vira 500", "XX_999", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteError(rec, tt.code, "mensagem de erro", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "mensagem de erro", body.Message)
		})
	}
}
