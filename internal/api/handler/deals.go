package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/internal/usecases/pipeline"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
)

// handlePipelineError traduz erros do usecase de pipeline
func handlePipelineError(w http.ResponseWriter, err error, fallback string) {
	var pipelineErr *pipeline.PipelineError
	if errors.As(err, &pipelineErr) {
		apiErrors.WriteError(w, pipelineErr.Code, pipelineErr.Error(), nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
}

func CreateDeal(service pipeline.PipelineService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		var req domain.CreateDealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		req.AccountID = accountID

		deal, err := service.CreateDeal(r.Context(), &req)
		if err != nil {
			handlePipelineError(w, err, "Erro ao criar deal")
			return
		}

		writeJSON(w, http.StatusCreated, deal)
	})
}

func ListDeals(service pipeline.PipelineService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		deals, err := service.ListDeals(r.Context(), accountID)
		if err != nil {
			handlePipelineError(w, err, "Erro ao listar deals")
			return
		}

		writeJSON(w, http.StatusOK, deals)
	})
}

func UpdateDeal(service pipeline.PipelineService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dealID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID do deal inválido", nil)
			return
		}

		var req domain.UpdateDealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		req.ID = dealID

		deal, err := service.UpdateDeal(r.Context(), &req)
		if err != nil {
			handlePipelineError(w, err, "Erro ao atualizar deal")
			return
		}

		writeJSON(w, http.StatusOK, deal)
	})
}

func DeleteDeal(service pipeline.PipelineService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dealID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID do deal inválido", nil)
			return
		}

		if err := service.DeleteDeal(r.Context(), dealID); err != nil {
			handlePipelineError(w, err, "Erro ao excluir deal")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
