package dto

// RegisterRequest describes the signup payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest describes the login payload.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UserResponse is a user record without credentials.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
	Role  string `json:"role"`
}
