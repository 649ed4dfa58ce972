package dto

// UserListRequest GET /users
type UserListRequest struct {
	PaginationRequest
	Search string `form:"search"`
	Role   string `form:"role" binding:"omitempty,oneof=admin teacher operator principal"`
}

// UserForm create and edit form. Password is optional on edit.
type UserForm struct {
	Username string `form:"username"  label:"Username"  binding:"required,min=3,max=50,alphanum"`
	FullName string `form:"full_name" label:"Full name" binding:"notblank,max=120"`
	Email    string `form:"email"     label:"Email"     binding:"omitempty,email,max=255"`
	Role     string `form:"role"      label:"Role"      binding:"required,oneof=admin teacher operator principal"`
	Password string `form:"password"  label:"Password"  binding:"omitempty,min=8,max=72"`
	IsActive bool   `form:"is_active"`
}

// ResetPasswordForm POST /users/:id/reset-password
type ResetPasswordForm struct {
	Password string `form:"password" label:"New password" binding:"required,min=8,max=72"`
}

// UserResponse user row without credentials
type UserResponse struct {
	ID          string
	Username    string
	FullName    string
	Email       string
	Role        string
	IsActive    bool
	IsPremium   bool
	LastLoginAt string
	CreatedAt   string
}

// UserOption entry of a teacher dropdown
type UserOption struct {
	ID       string
	FullName string
}
