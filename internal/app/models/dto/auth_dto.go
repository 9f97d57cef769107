package dto

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"teacher@northfield.edu"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshTokenRequest represents the token refresh payload
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents an issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn"`        // Access token lifetime in seconds
	RefreshExpiresIn int    `json:"refreshExpiresIn"` // Refresh token lifetime in seconds
	TokenType        string `json:"tokenType" example:"Bearer"`
}
