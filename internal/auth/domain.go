package auth

import "time"

// Session is a server side refresh session. The Token column stores the
// opaque refresh token handed to the client; the access token is a JWT
// and never persisted.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CompanyID string    `json:"company_id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry. A session
// expiring exactly now is treated as expired.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
