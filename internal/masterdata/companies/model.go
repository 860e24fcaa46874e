package companies

import "time"

// Statuses for a company. A company is soft deleted by moving to inactive;
// none of the modeled flows ever move it back.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Company is the tenant root entity.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CNPJ      *string   `json:"cnpj,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
