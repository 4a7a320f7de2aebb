package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vfg2006/account-tracker-api/internal/domain"
	"github.com/vfg2006/account-tracker-api/internal/usecases/authenticating"
	"github.com/vfg2006/account-tracker-api/pkg/apiErrors"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   int    `json:"role_id"`
}

func CreateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		user := &domain.User{
			Name:         req.Name,
			Lastname:     req.Lastname,
			Email:        req.Email,
			PasswordHash: req.Password,
			RoleID:       req.RoleID,
		}

		created, err := service.CreateUser(r.Context(), user)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		created.PasswordHash = ""
		writeJSON(w, http.StatusCreated, created)
	}
}

func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := service.ListUser(r.Context())
		if err != nil {
			handleAuthError(w, err)
			return
		}

		for _, user := range users {
			user.PasswordHash = ""
		}

		writeJSON(w, http.StatusOK, users)
	}
}

func GetUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID do usuário inválido", nil)
			return
		}

		user, err := service.GetUserProfile(r.Context(), userID)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

func UpdateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(r, "id")
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "ID do usuário inválido", nil)
			return
		}

		var req domain.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		req.ID = userID

		if err := service.UpdateUser(r.Context(), &req); err != nil {
			handleAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Usuário atualizado com sucesso",
		})
	}
}
