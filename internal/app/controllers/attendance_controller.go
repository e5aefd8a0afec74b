package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/seyi/unimark/internal/app/models/dto"
	"github.com/seyi/unimark/internal/app/services"
	"github.com/seyi/unimark/internal/middleware"
)

// AttendanceController handles scan and student-facing attendance endpoints
type AttendanceController struct {
	attendanceService *services.AttendanceService
	logger            zerolog.Logger
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService, logger zerolog.Logger) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService, logger: logger}
}

// Mark records attendance from a scanned QR token
// @Summary Mark attendance
// @Description Verifies the scanned token and records the student's presence. A repeat scan for the same session succeeds without creating a second record.
// @Tags attendance
// @Accept json
// @Produce json
// @Param request body dto.MarkAttendanceRequest true "Scanned QR token"
// @Success 200 {object} dto.APIResponse{data=dto.MarkAttendanceResponse}
// @Failure 400 {object} dto.ErrorResponse "Session closed"
// @Failure 401 {object} dto.ErrorResponse "Token invalid or expired"
// @Security BearerAuth
// @Router /attendance/mark [post]
func (c *AttendanceController) Mark(ctx *gin.Context) {
	var req dto.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	studentID := middleware.ProfileID(ctx)
	resp, err := c.attendanceService.Mark(ctx.Request.Context(), studentID, req.Token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Stats returns the student's per-course attendance standing
// @Summary Attendance stats for the authenticated student
// @Tags attendance
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StudentStatsResponse}
// @Security BearerAuth
// @Router /students/me/stats [get]
func (c *AttendanceController) Stats(ctx *gin.Context) {
	studentID := middleware.ProfileID(ctx)
	resp, err := c.attendanceService.StatsForStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// History returns a page of the student's attendance records
// @Summary Attendance history for the authenticated student
// @Tags attendance
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.HistoryResponse}
// @Security BearerAuth
// @Router /students/me/history [get]
func (c *AttendanceController) History(ctx *gin.Context) {
	studentID := middleware.ProfileID(ctx)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))

	resp, err := c.attendanceService.History(ctx.Request.Context(), studentID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
