package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
)

// SubscriptionHandler premium subscriptions of user accounts
type SubscriptionHandler struct {
	subscriptionSvc service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionSvc service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionSvc: subscriptionSvc}
}

// List GET /subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	var req dto.SubscriptionListRequest
	if !bindQuery(c, &req) {
		return
	}
	if req.Tab == "" {
		req.Tab = "all"
	}

	page, err := h.subscriptionSvc.List(c.Request.Context(), &req)
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "subscriptions/list", gin.H{
		"Title":    "Subscriptions",
		"Page":     withQuery(c, page),
		"Filter":   req,
		"ReturnTo": c.Request.URL.RequestURI(),
	})
}

// Apply POST /subscriptions/:id
func (h *SubscriptionHandler) Apply(c *gin.Context) {
	back := backTo(c, "/subscriptions")

	var form dto.SubscriptionActionForm
	if errs := bindForm(c, &form); errs != nil {
		redirectWithFlash(c, middleware.FlashError, strings.Join(errs, " "), back)
		return
	}

	sub, err := h.subscriptionSvc.Apply(c.Request.Context(), c.Param("id"), &form, pageUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			notFound(c, "The user")
		case errors.Is(err, service.ErrSubscriptionAction),
			errors.Is(err, service.ErrSubscriptionMonths),
			errors.Is(err, service.ErrNotPremium):
			redirectWithFlash(c, middleware.FlashError, err.Error(), back)
		default:
			serverError(c, err)
		}
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, subscriptionMessage(form.Action, sub), back)
}

func subscriptionMessage(action string, sub *dto.SubscriptionResponse) string {
	switch action {
	case service.SubscriptionRevoke:
		return fmt.Sprintf("Premium was revoked from %s.", sub.FullName)
	case service.SubscriptionExtend:
		return fmt.Sprintf("Premium for %s now runs until %s.", sub.FullName, sub.ExpiresAt)
	default:
		if sub.ExpiresAt == "" {
			return fmt.Sprintf("%s now has premium with no expiry.", sub.FullName)
		}
		return fmt.Sprintf("%s now has premium until %s.", sub.FullName, sub.ExpiresAt)
	}
}
