package handler

import (
	"net/http"

	"github.com/vfg2006/account-tracker-api/internal/api/handler/router"
	"github.com/vfg2006/account-tracker-api/internal/usecases/account"
	"github.com/vfg2006/account-tracker-api/internal/usecases/authenticating"
	"github.com/vfg2006/account-tracker-api/internal/usecases/dashboarding"
	"github.com/vfg2006/account-tracker-api/internal/usecases/engagement"
	"github.com/vfg2006/account-tracker-api/internal/usecases/pipeline"
	"github.com/vfg2006/account-tracker-api/internal/usecases/syncing"
	"github.com/vfg2006/account-tracker-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Accounts(service account.AccountService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts",
			Method:      http.MethodGet,
			Handler:     ListAccounts(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts",
			Method:      http.MethodPost,
			Handler:     CreateAccount(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id",
			Method:      http.MethodGet,
			Handler:     GetAccount(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id",
			Method:      http.MethodPatch,
			Handler:     UpdateAccount(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Contacts(service account.AccountService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/contacts",
			Method:      http.MethodGet,
			Handler:     ListContacts(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/contacts",
			Method:      http.MethodPost,
			Handler:     CreateContact(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/contacts/:id",
			Method:      http.MethodPatch,
			Handler:     UpdateContact(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/contacts/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteContact(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Engagement(service engagement.EngagementService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/activities",
			Method:      http.MethodGet,
			Handler:     ListActivities(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/activities",
			Method:      http.MethodPost,
			Handler:     CreateActivity(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/notes",
			Method:      http.MethodGet,
			Handler:     ListNotes(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/notes",
			Method:      http.MethodPost,
			Handler:     CreateNote(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/touch",
			Method:      http.MethodGet,
			Handler:     GetTouch(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/touch",
			Method:      http.MethodPost,
			Handler:     RecordTouch(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Tasks(service engagement.EngagementService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/tasks",
			Method:      http.MethodGet,
			Handler:     ListTasks(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/tasks",
			Method:      http.MethodPost,
			Handler:     CreateTask(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/tasks/:id",
			Method:      http.MethodPatch,
			Handler:     UpdateTask(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/tasks/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteTask(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Deals(service pipeline.PipelineService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/deals",
			Method:      http.MethodGet,
			Handler:     ListDeals(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/deals",
			Method:      http.MethodPost,
			Handler:     CreateDeal(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/deals/:id",
			Method:      http.MethodPatch,
			Handler:     UpdateDeal(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/deals/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteDeal(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Dashboard(service dashboarding.DashboardService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/dashboard",
			Method:      http.MethodGet,
			Handler:     GetDashboard(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Sync(service syncing.SyncService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sync/run",
			Method:      http.MethodPost,
			Handler:     RunSync(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrManager()},
		},
		{
			Path:        "/v1/sync/status",
			Method:      http.MethodGet,
			Handler:     GetSyncStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrManager()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
