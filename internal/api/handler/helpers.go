package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
)

// writeJSON serializa a resposta com o status informado
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Erro ao codificar resposta")
	}
}

// pathID extrai um parâmetro numérico da URL
func pathID(r *http.Request, name string) (int, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName(name)
	if raw == "" {
		return 0, false
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// queryDate resolve o parâmetro ?date=YYYY-MM-DD, usando hoje como padrão.
// O segundo retorno é false quando o valor informado é inválido.
func queryDate(r *http.Request, today func() domain.Date) (domain.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return today(), true
	}

	day, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, false
	}

	return day, true
}

// writeInvalidDate responde o erro padrão de data malformada
func writeInvalidDate(w http.ResponseWriter) {
	apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida, use o formato YYYY-MM-DD", nil)
}
