package models

// User is the public view of an account; the password hash never leaves the
// auth service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse is returned from register and login.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
