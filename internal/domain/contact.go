package domain

import "time"

// Contact pertence a uma conta; o role é usado apenas para ordenação
// de exibição, sem invariantes além da integridade referencial.
type Contact struct {
	ID        int       `json:"id"`
	AccountID int       `json:"account_id"`
	Name      string    `json:"name"`
	Role      *string   `json:"role"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateContactRequest struct {
	AccountID int     `json:"account_id"`
	Name      string  `json:"name"`
	Role      *string `json:"role"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

type UpdateContactRequest struct {
	ID    int            `json:"-"`
	Name  OptionalString `json:"name"`
	Role  OptionalString `json:"role"`
	Email OptionalString `json:"email"`
	Phone OptionalString `json:"phone"`
}
