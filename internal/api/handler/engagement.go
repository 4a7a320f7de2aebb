package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/internal/usecases/engagement"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
)

// handleEngagementError traduz erros do usecase de engajamento
func handleEngagementError(w http.ResponseWriter, err error, fallback string) {
	var engagementErr *engagement.EngagementError
	if errors.As(err, &engagementErr) {
		apiErrors.WriteError(w, engagementErr.Code, engagementErr.Error(), nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
}

// activityResponse acrescenta à activity o resultado do touch do dia
type activityResponse struct {
	*domain.Activity
	TouchRecorded bool `json:"touch_recorded"`
}

type noteResponse struct {
	*domain.Note
	TouchRecorded bool `json:"touch_recorded"`
}

type touchResponse struct {
	AccountID     int         `json:"account_id"`
	TouchDate     domain.Date `json:"touch_date"`
	TouchRecorded bool        `json:"touch_recorded"`
	Touched       bool        `json:"touched"`
}

func CreateActivity(service engagement.EngagementService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		var req domain.CreateActivityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		req.AccountID = accountID

		activity, touched, err := service.CreateActivity(r.Context(), &req)
		if err != nil {
			handleEngagementError(w, err, "Erro ao registrar activity")
			return
		}

		writeJSON(w, http.StatusCreated, activityResponse{Activity: activity, TouchRecorded: touched})
	})
}

func ListActivities(service engagement.EngagementService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		activities, err := service.ListActivities(r.Context(), accountID, limit, offset)
		if err != nil {
			handleEngagementError(w, err, "Erro ao listar activities")
			return
		}

		writeJSON(w, http.StatusOK, activities)
	})
}

func CreateNote(service engagement.EngagementService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		var req domain.CreateNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		req.AccountID = accountID

		note, touched, err := service.CreateNote(r.Context(), &req)
		if err != nil {
			handleEngagementError(w, err, "Erro ao registrar note")
			return
		}

		writeJSON(w, http.StatusCreated, noteResponse{Note: note, TouchRecorded: touched})
	})
}

func ListNotes(service engagement.EngagementService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		notes, err := service.ListNotes(r.Context(), accountID)
		if err != nil {
			handleEngagementError(w, err, "Erro ao listar notes")
			return
		}

		writeJSON(w, http.StatusOK, notes)
	})
}

type recordTouchRequest struct {
	TouchDate *domain.Date `json:"touch_date"`
}

// RecordTouch marca a conta como touched sem criar evento. Repetir a
// chamada no mesmo dia devolve touch_recorded=false com status 200.
func RecordTouch(service engagement.EngagementService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		var req recordTouchRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
				return
			}
		}

		recorded, day, err := service.RecordTouch(r.Context(), accountID, req.TouchDate)
		if err != nil {
			handleEngagementError(w, err, "Erro ao registrar touch")
			return
		}

		status := http.StatusOK
		if recorded {
			status = http.StatusCreated
		}

		writeJSON(w, status, touchResponse{
			AccountID:     accountID,
			TouchDate:     day,
			TouchRecorded: recorded,
			Touched:       true,
		})
	})
}

func GetTouch(service engagement.EngagementService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		day, ok := queryDate(r, today)
		if !ok {
			writeInvalidDate(w)
			return
		}

		touched, err := service.IsTouched(r.Context(), accountID, day)
		if err != nil {
			handleEngagementError(w, err, "Erro ao consultar touch")
			return
		}

		writeJSON(w, http.StatusOK, touchResponse{
			AccountID: accountID,
			TouchDate: day,
			Touched:   touched,
		})
	})
}
