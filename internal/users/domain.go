package users

import "time"

// User types. Owners are tied to a company; operators additionally require a
// store and a role.
const (
	TypeOwner    = "owner"
	TypeOperator = "operator"
)

// User represents an account within a company. The password hash never
// leaves the backend: it is excluded from JSON serialization.
type User struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	StoreID      *string   `json:"storeId,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	UserType     string    `json:"userType"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
