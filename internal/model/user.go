package model

// User is the signed-in account as the API reports it.
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Credentials are submitted to POST /auth/signin.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpInput is the body for POST /auth/signup.
type SignUpInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RePassword string `json:"rePassword"`
	Phone      string `json:"phone"`
}

// AuthResponse is returned by both sign-in and sign-up.
type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

// StatusResponse is the generic {status, message} body of bare mutations.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
