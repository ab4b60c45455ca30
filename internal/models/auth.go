package models

// LoginRequest defines the structure for admin login requests.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed JWT and the authenticated admin.
type LoginResponse struct {
	Token string `json:"token"`
	Admin *Admin `json:"admin"`
}

// CreateAdminRequest defines the structure for creating a new admin account.
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}
