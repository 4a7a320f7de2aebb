package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/account-tracker-api/internal/usecases/dashboarding"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
)

// GetDashboard calcula o snapshot de métricas. Aceita ?date=YYYY-MM-DD
// para consultar um dia de referência diferente de hoje.
func GetDashboard(service dashboarding.DashboardService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asOf, ok := queryDate(r, dashboarding.Today)
		if !ok {
			writeInvalidDate(w)
			return
		}

		snapshot, err := service.ComputeDashboard(r.Context(), asOf)
		if err != nil {
			logrus.WithError(err).Error("Erro ao calcular dashboard")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao calcular métricas do dashboard", nil)
			return
		}

		writeJSON(w, http.StatusOK, snapshot)
	})
}
