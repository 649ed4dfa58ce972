package dto

// LoginRequest used by both the login page and the scanner API
type LoginRequest struct {
	Username string `form:"username" json:"username" label:"Username" binding:"required,max=50"`
	Password string `form:"password" json:"password" label:"Password" binding:"required,max=72"`
}

// ClientMeta request details stored with auth events and audit logs
type ClientMeta struct {
	IP        string
	UserAgent string
}

// SessionUser the signed-in user kept in the session
type SessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// TokenResponse scanner API login result
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int         `json:"expires_in"` // seconds
	User        SessionUser `json:"user"`
}
