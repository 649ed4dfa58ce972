package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/validation"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
)

// error page template
const errorPage = "error"

// render executes a page template with the layout data every page needs.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.CurrentUser(c)
	data["Flashes"] = middleware.Flashes(c)
	data["CSRFToken"] = middleware.CSRFToken(c)
	data["CSRFField"] = middleware.CSRFField
	data["Path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

// renderForm re-renders a form with its problems listed above it.
func renderForm(c *gin.Context, name string, data gin.H, errs []string) {
	if data == nil {
		data = gin.H{}
	}
	data["Errors"] = errs
	render(c, http.StatusUnprocessableEntity, name, data)
}

func renderError(c *gin.Context, status int, message string) {
	render(c, status, errorPage, gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

func notFound(c *gin.Context, what string) {
	renderError(c, http.StatusNotFound, what+" was not found.")
}

// serverError hides the cause; the service layer has already logged it.
func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// redirectWithFlash queues a message and sends the browser to target.
func redirectWithFlash(c *gin.Context, kind, message, target string) {
	middleware.AddFlash(c, kind, message)
	c.Redirect(http.StatusFound, target)
}

// formMessages returns the messages to show when err is a form problem:
// binding failures, collected ValidationErrors or one of known.
func formMessages(err error, known ...error) ([]string, bool) {
	if v, ok := service.AsValidation(err); ok {
		return v.Messages(), true
	}
	for _, k := range known {
		if errors.Is(err, k) {
			return []string{k.Error()}, true
		}
	}
	return nil, false
}

// bindForm binds the posted form, returning readable messages on failure.
func bindForm(c *gin.Context, form any) []string {
	if err := c.ShouldBind(form); err != nil {
		return validation.Messages(err)
	}
	return nil
}

// bindQuery binds list filters. Invalid filters are flashed and the bare
// page is loaded instead.
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		redirectWithFlash(c, middleware.FlashError, strings.Join(validation.Messages(err), " "), c.Request.URL.Path)
		return false
	}
	return true
}

// withQuery keeps the current filters in the page links.
func withQuery[T any](c *gin.Context, p *dto.Page[T]) *dto.Page[T] {
	if p != nil {
		p.Pager = p.Pager.WithQuery(c.Request.URL.Query())
	}
	return p
}

// safeRedirect accepts only local paths.
func safeRedirect(target, fallback string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\") {
		return target
	}
	return fallback
}

// backTo honours the form's return_to field so list filters survive row actions.
func backTo(c *gin.Context, fallback string) string {
	return safeRedirect(c.PostForm("return_to"), fallback)
}

func clientMeta(c *gin.Context) dto.ClientMeta {
	return dto.ClientMeta{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

// CSRFFailure answers a post whose form token is missing or stale.
func CSRFFailure(c *gin.Context) {
	renderError(c, http.StatusForbidden, "Your form expired. Go back, reload the page and try again.")
}

// NotFound is the page for unknown routes.
func NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "That page does not exist.")
}

// BodyTooLarge is the page for uploads over the size limit.
func BodyTooLarge(c *gin.Context) {
	renderError(c, http.StatusRequestEntityTooLarge, "That file is too large to upload.")
}
