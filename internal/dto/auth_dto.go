package dto

// RegisterRequest carries a registration submission.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	Username        string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginRequest carries a credential submission.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after a successful login or registration. Location
// points the client at the room listing, mirroring the post-login redirect.
type AuthResponse struct {
	Token    string       `json:"token"`
	User     UserResponse `json:"user"`
	Location string       `json:"location"`
}
