package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/internal/usecases/account"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
)

func today() domain.Date {
	return domain.DateOf(time.Now())
}

// handleAccountError traduz erros do usecase de contas para a resposta HTTP
func handleAccountError(w http.ResponseWriter, err error, fallback string) {
	var accountErr *account.AccountError
	if errors.As(err, &accountErr) {
		apiErrors.WriteError(w, accountErr.Code, accountErr.Error(), nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
}

func ListAccounts(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asOf, ok := queryDate(r, today)
		if !ok {
			writeInvalidDate(w)
			return
		}

		resp, err := service.ListAccounts(r.Context(), asOf)
		if err != nil {
			logrus.Error("Error listing accounts:", err)
			handleAccountError(w, err, "Erro ao listar contas")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	})
}

func GetAccount(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		asOf, ok := queryDate(r, today)
		if !ok {
			writeInvalidDate(w)
			return
		}

		detail, err := service.GetAccount(r.Context(), accountID, asOf)
		if err != nil {
			handleAccountError(w, err, "Erro ao buscar conta")
			return
		}

		writeJSON(w, http.StatusOK, detail)
	})
}

func CreateAccount(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		acc, err := service.CreateAccount(r.Context(), &req)
		if err != nil {
			handleAccountError(w, err, "Erro ao criar conta")
			return
		}

		writeJSON(w, http.StatusCreated, acc)
	})
}

func UpdateAccount(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		var req domain.UpdateAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		// O ID da URL prevalece sobre qualquer valor do corpo
		req.ID = accountID

		acc, err := service.UpdateAccount(r.Context(), &req)
		if err != nil {
			handleAccountError(w, err, "Erro ao atualizar conta")
			return
		}

		writeJSON(w, http.StatusOK, acc)
	})
}

func ListContacts(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		contacts, err := service.ListContacts(r.Context(), accountID)
		if err != nil {
			handleAccountError(w, err, "Erro ao listar contatos")
			return
		}

		writeJSON(w, http.StatusOK, contacts)
	})
}

func CreateContact(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID da conta inválido", nil)
			return
		}

		var req domain.CreateContactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		req.AccountID = accountID

		contact, err := service.CreateContact(r.Context(), &req)
		if err != nil {
			handleAccountError(w, err, "Erro ao criar contato")
			return
		}

		writeJSON(w, http.StatusCreated, contact)
	})
}

func UpdateContact(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contactID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID do contato inválido", nil)
			return
		}

		var req domain.UpdateContactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		req.ID = contactID

		contact, err := service.UpdateContact(r.Context(), &req)
		if err != nil {
			handleAccountError(w, err, "Erro ao atualizar contato")
			return
		}

		writeJSON(w, http.StatusOK, contact)
	})
}

func DeleteContact(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contactID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID do contato inválido", nil)
			return
		}

		if err := service.DeleteContact(r.Context(), contactID); err != nil {
			handleAccountError(w, err, "Erro ao excluir contato")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
