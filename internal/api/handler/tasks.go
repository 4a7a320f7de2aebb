package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/internal/usecases/engagement"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
)

func CreateTask(service engagement.EngagementService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		var req domain.CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		req.AccountID = accountID

		task, err := service.CreateTask(r.Context(), &req)
		if err != nil {
			handleEngagementError(w, err, "Erro ao criar task")
			return
		}

		writeJSON(w, http.StatusCreated, task)
	})
}

func ListTasks(service engagement.EngagementService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		tasks, err := service.ListTasks(r.Context(), accountID)
		if err != nil {
			handleEngagementError(w, err, "Erro ao listar tasks")
			return
		}

		writeJSON(w, http.StatusOK, tasks)
	})
}

func UpdateTask(service engagement.EngagementService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		taskID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da task inválido", nil)
			return
		}

		var req domain.UpdateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		req.ID = taskID

		task, err := service.UpdateTask(r.Context(), &req)
		if err != nil {
			handleEngagementError(w, err, "Erro ao atualizar task")
			return
		}

		writeJSON(w, http.StatusOK, task)
	})
}

func DeleteTask(service engagement.EngagementService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		taskID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da task inválido", nil)
			return
		}

		if err := service.DeleteTask(r.Context(), taskID); err != nil {
			handleEngagementError(w, err, "Erro ao excluir task")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
