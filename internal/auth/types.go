package auth

import "time"

// Tutor is a registered account that owns student records.
type Tutor struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicTutor is the subset of tutor fields returned to clients.
type PublicTutor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Public strips credential material from t.
func (t Tutor) Public() PublicTutor {
	return PublicTutor{ID: t.ID, Username: t.Username, Name: t.Name}
}

// Session is the result of a successful register or login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"-"`
	User      PublicTutor `json:"user"`
}
