package handler

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/account-tracker-api/internal/usecases/syncing"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
)

// handleSyncError traduz erros do orquestrador de sync
func handleSyncError(w http.ResponseWriter, err error, fallback string) {
	var syncErr *syncing.SyncError
	if errors.As(err, &syncErr) {
		apiErrors.WriteError(w, syncErr.Code, syncErr.Error(), nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
}

// RunSync dispara uma execução completa do espelhamento. Execução já em
// andamento responde 409; destino não configurado responde 503.
func RunSync(service syncing.SyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunSync")

		result, err := service.FullSync(r.Context())
		if err != nil {
			handleSyncError(w, err, "Erro ao executar sync")
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}

func GetSyncStatus(service syncing.SyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, err := service.Status(r.Context())
		if err != nil {
			handleSyncError(w, err, "Erro ao consultar status do sync")
			return
		}

		writeJSON(w, http.StatusOK, status)
	})
}
