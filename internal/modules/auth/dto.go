package auth

import "imagencali/internal/domain"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserPublic is the user shape returned to clients. The password hash
// never leaves the service layer.
type UserPublic struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func publicUser(u *domain.User) UserPublic {
	return UserPublic{
		ID:    u.ID,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// AuthResult carries the outcome of a successful register, login or
// refresh. The refresh token travels to the client only as a cookie.
type AuthResult struct {
	User         UserPublic
	AccessToken  string
	RefreshToken string
}
