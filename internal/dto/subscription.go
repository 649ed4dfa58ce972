package dto

// SubscriptionListRequest GET /subscriptions
type SubscriptionListRequest struct {
	PaginationRequest
	Tab    string `form:"tab" binding:"omitempty,oneof=all premium expired free"`
	Search string `form:"search"`
}

// Plan maps the tab to a subscription plan filter, empty meaning every user.
func (r *SubscriptionListRequest) Plan() string {
	if r.Tab == "all" {
		return ""
	}
	return r.Tab
}

// SubscriptionActionForm POST /subscriptions/:id
type SubscriptionActionForm struct {
	Action string `form:"action" label:"Action" binding:"required,oneof=grant revoke extend"`
	Months int    `form:"months" label:"Months" binding:"min=0,max=36"`
}

// SubscriptionResponse subscription row
type SubscriptionResponse struct {
	UserID    string
	Username  string
	FullName  string
	Role      string
	IsPremium bool
	Active    bool
	ExpiresAt string
}
