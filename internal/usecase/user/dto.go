package user

// RegisterRequest represents the request payload for registering a new user.
// Age is kept as text so format errors can be reported separately from missing fields.
type RegisterRequest struct {
	Name            string `validate:"required"`
	MobileNumber    string `validate:"required"`
	Age             string `validate:"required"`
	Email           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// RegisterResponse represents the response payload after a successful registration.
type RegisterResponse struct {
	ID      int64
	Message string
}

// LoginRequest represents the request payload for authenticating a user.
type LoginRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// LoginResponse represents the response payload after a successful login.
type LoginResponse struct {
	Message string
}
