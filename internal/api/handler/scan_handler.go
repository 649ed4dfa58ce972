package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/service"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/validation"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/response"
)

// ScanHandler JSON API used by the scanner kiosks
type ScanHandler struct {
	authSvc       service.AuthService
	attendanceSvc service.AttendanceService
}

func NewScanHandler(authSvc service.AuthService, attendanceSvc service.AttendanceService) *ScanHandler {
	return &ScanHandler{authSvc: authSvc, attendanceSvc: attendanceSvc}
}

// Login POST /api/v1/auth/login
func (h *ScanHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, "username and password are required", err)
		return
	}

	tok, err := h.authSvc.APILogin(c.Request.Context(), &req, clientMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, err.Error())
		case errors.Is(err, service.ErrAccountDisabled), errors.Is(err, service.ErrScannerRoleDenied):
			response.Forbidden(c, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, tok)
}

// Logout POST /api/v1/auth/logout
func (h *ScanHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.APILogout(c.Request.Context(), claims, clientMeta(c)); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// Scan POST /api/v1/scans
// A first scan answers 201, a repeat on the same day 200 with duplicate=true.
func (h *ScanHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, "code is required", err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.Scan(c.Request.Context(), req.Code, callerID)
	if err != nil {
		h.handleScanError(c, err)
		return
	}

	if result.Duplicate {
		response.OK(c, result)
		return
	}
	response.Created(c, result)
}

func (h *ScanHandler) handleScanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, "no student matches this code")
	case errors.Is(err, service.ErrStudentInactive):
		response.Error(c, http.StatusUnprocessableEntity, response.CodeBadRequest, err.Error())
	default:
		response.InternalError(c)
	}
}

// badJSON answers 400 with the failed fields as details for the kiosk log.
func badJSON(c *gin.Context, message string, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeBadRequest,
		message, strings.Join(validation.Messages(err), "; "))
}
