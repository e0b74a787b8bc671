package dto

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	AuthCode string `json:"auth_code"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse confirms a new account.
type RegisterResponse struct {
	Message   string `json:"message"`
	UserEmail string `json:"user_email"`
}

// LoginResponse confirms a session.
type LoginResponse struct {
	Message   string `json:"message"`
	UserEmail string `json:"user_email"`
	Role      string `json:"role"`
}

// AuthStatusResponse reports the current session, if any.
type AuthStatusResponse struct {
	IsAuthenticated  bool   `json:"is_authenticated"`
	UserEmail        string `json:"user_email,omitempty"`
	UserRole         string `json:"user_role,omitempty"`
	UserAssociations string `json:"user_associations,omitempty"`
}
