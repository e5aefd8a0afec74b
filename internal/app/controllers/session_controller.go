package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/seyi/unimark/internal/app/models/dto"
	"github.com/seyi/unimark/internal/app/services"
	"github.com/seyi/unimark/internal/middleware"
	"github.com/seyi/unimark/internal/pkg/apperrors"
	"github.com/seyi/unimark/internal/pkg/export"
)

// SessionController handles session lifecycle and reporting endpoints
type SessionController struct {
	sessionService *services.SessionService
	reportService  *services.ReportService
	logger         zerolog.Logger
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService *services.SessionService, reportService *services.ReportService, logger zerolog.Logger) *SessionController {
	return &SessionController{
		sessionService: sessionService,
		reportService:  reportService,
		logger:         logger,
	}
}

// Open starts a new attendance session
// @Summary Open an attendance session
// @Description Opens a time-boxed session for one of the lecturer's courses and returns the signed QR token.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.OpenSessionRequest true "Course to open a session for"
// @Success 201 {object} dto.APIResponse{data=dto.OpenSessionResponse}
// @Failure 403 {object} dto.ErrorResponse "Course not assigned to lecturer"
// @Security BearerAuth
// @Router /sessions [post]
func (c *SessionController) Open(ctx *gin.Context) {
	var req dto.OpenSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	lecturerID := middleware.ProfileID(ctx)
	session, err := c.sessionService.Open(ctx.Request.Context(), lecturerID, req.CourseCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := &dto.OpenSessionResponse{
		Session: services.BuildSessionResponse(session, 0),
		Token:   session.QRToken,
		QRURL:   fmt.Sprintf("/api/v1/sessions/%s/qr", session.ID),
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// Close ends a session before its window expires
// @Summary Close an attendance session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not the owning lecturer"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /sessions/{id}/close [patch]
func (c *SessionController) Close(ctx *gin.Context) {
	lecturerID := middleware.ProfileID(ctx)
	sessionID := ctx.Param("id")

	if err := c.sessionService.Close(ctx.Request.Context(), lecturerID, sessionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"sessionId": sessionID, "isActive": false}))
}

// List returns the lecturer's sessions, newest first
// @Summary List the lecturer's sessions
// @Tags sessions
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.APIResponse{data=[]dto.SessionResponse}
// @Security BearerAuth
// @Router /sessions [get]
func (c *SessionController) List(ctx *gin.Context) {
	lecturerID := middleware.ProfileID(ctx)
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	summaries, err := c.sessionService.List(ctx.Request.Context(), lecturerID, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]*dto.SessionResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, services.BuildSessionResponse(&s.AttendanceSession, s.AttendeeCount))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// LiveCount reports how many students have marked so far
// @Summary Live attendance count for a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.LiveCountResponse}
// @Security BearerAuth
// @Router /sessions/{id}/count [get]
func (c *SessionController) LiveCount(ctx *gin.Context) {
	lecturerID := middleware.ProfileID(ctx)
	sessionID := ctx.Param("id")

	count, err := c.sessionService.LiveCount(ctx.Request.Context(), lecturerID, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(&dto.LiveCountResponse{SessionID: sessionID, Count: count}))
}

// QRImage renders the session token as a PNG for projection
// @Summary QR code image for a session
// @Tags sessions
// @Produce png
// @Param id path string true "Session ID"
// @Param size query int false "Image size in pixels" default(512)
// @Success 200 {file} png
// @Security BearerAuth
// @Router /sessions/{id}/qr [get]
func (c *SessionController) QRImage(ctx *gin.Context) {
	lecturerID := middleware.ProfileID(ctx)
	sessionID := ctx.Param("id")
	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "512"))

	png, err := c.sessionService.QRImage(ctx.Request.Context(), lecturerID, sessionID, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}

// Report returns the aggregated report for a session
// @Summary Session attendance report
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SessionReportResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owning lecturer"
// @Security BearerAuth
// @Router /sessions/{id}/report [get]
func (c *SessionController) Report(ctx *gin.Context) {
	lecturerID := middleware.ProfileID(ctx)
	sessionID := ctx.Param("id")

	report, err := c.reportService.SessionReport(ctx.Request.Context(), lecturerID, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(services.BuildReportResponse(report)))
}

// ExportCSV streams the session report as a CSV download
// @Summary Export session report as CSV
// @Tags sessions
// @Produce text/csv
// @Param id path string true "Session ID"
// @Success 200 {file} csv
// @Security BearerAuth
// @Router /sessions/{id}/export/csv [get]
func (c *SessionController) ExportCSV(ctx *gin.Context) {
	lecturerID := middleware.ProfileID(ctx)
	sessionID := ctx.Param("id")

	report, err := c.reportService.SessionReport(ctx.Request.Context(), lecturerID, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if report.TotalPresent == 0 {
		middleware.HandleAPIError(ctx, apperrors.ErrNoRecordsToExport)
		return
	}

	var buf bytes.Buffer
	if err := export.SessionCSV(&buf, report); err != nil {
		c.logger.Error().Err(err).Str("sessionId", sessionID).Msg("CSV export failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+export.Filename(report, "csv")+`"`)
	ctx.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportPDF streams the session report as a PDF download
// @Summary Export session report as PDF
// @Tags sessions
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Success 200 {file} pdf
// @Security BearerAuth
// @Router /sessions/{id}/export/pdf [get]
func (c *SessionController) ExportPDF(ctx *gin.Context) {
	lecturerID := middleware.ProfileID(ctx)
	sessionID := ctx.Param("id")

	report, err := c.reportService.SessionReport(ctx.Request.Context(), lecturerID, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if report.TotalPresent == 0 {
		middleware.HandleAPIError(ctx, apperrors.ErrNoRecordsToExport)
		return
	}

	var buf bytes.Buffer
	if err := export.SessionPDF(&buf, report); err != nil {
		c.logger.Error().Err(err).Str("sessionId", sessionID).Msg("PDF export failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+export.Filename(report, "pdf")+`"`)
	ctx.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// CloseExpired deactivates sessions whose window has passed. Intended for a
// scheduler hitting the internal route; the background sweeper covers the
// common case.
func (c *SessionController) CloseExpired(ctx *gin.Context) {
	closed, err := c.sessionService.CloseExpired(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(&dto.CloseExpiredResponse{Closed: closed}))
}
