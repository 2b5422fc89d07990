package domain

// Role is the coarse permission tag gating administrative views.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User represents a registered account.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	Role         Role
}

// SecurityQA holds a user's two recovery questions with hashed answers.
// Exactly one row exists per registered (non-admin) user and it shares the
// user's lifetime.
type SecurityQA struct {
	ID               int64
	UserID           int64
	FirstQuestion    string
	SecondQuestion   string
	FirstAnswerHash  string
	SecondAnswerHash string
}
