package models

// User is the mock session identity. It gates UI visibility only and is
// never a security boundary.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
