package stores

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Store is a point of sale belonging to exactly one company.
type Store struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
