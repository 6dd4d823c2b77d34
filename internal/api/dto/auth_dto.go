package dto

// LoginRequest payload for POST /api/token/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest payload for POST /api/token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPairResponse carries both credentials issued at login.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessTokenResponse carries a freshly minted access token.
type AccessTokenResponse struct {
	Access string `json:"access"`
}
