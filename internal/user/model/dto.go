package model

import "time"

// SignUpRequest represents the request to create an account.
type SignUpRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name"     validate:"required,max=120"`
}

// SignInRequest represents the request to sign in with email and password.
type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after a successful sign-up or sign-in.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Identity  Identity  `json:"identity"`
}

// Identity describes the signed-in user.
type Identity struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// VerifyEmailRequest carries the token from a verification email.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// PasswordResetRequest asks for a password reset email.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password with a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateProfileRequest replaces the editable profile fields.
type UpdateProfileRequest struct {
	Name        string   `json:"name"         validate:"required,max=120"`
	Bio         string   `json:"bio"          validate:"max=1000"`
	Department  string   `json:"department"   validate:"max=120"`
	Year        int      `json:"year"         validate:"min=0,max=8"`
	Skills      []string `json:"skills"       validate:"max=30,dive,required,max=50"`
	GitHubURL   string   `json:"github_url"   validate:"omitempty,url,max=255"`
	LinkedInURL string   `json:"linkedin_url" validate:"omitempty,url,max=255"`
}

// Profile is the public view of a user.
type Profile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Bio         string   `json:"bio"`
	Department  string   `json:"department"`
	Year        int      `json:"year"`
	Skills      []string `json:"skills"`
	GitHubURL   string   `json:"github_url"`
	LinkedInURL string   `json:"linkedin_url"`
}
