// internal/api/run_handler.go
package api

import (
	"alcyxob/hypertrophy-app/internal/domain"
	"alcyxob/hypertrophy-app/internal/schedule"
	"alcyxob/hypertrophy-app/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RunHandler struct {
	runService        service.RunService
	attachmentService service.AttachmentService
}

func NewRunHandler(runService service.RunService, attachmentService service.AttachmentService) *RunHandler {
	return &RunHandler{
		runService:        runService,
		attachmentService: attachmentService,
	}
}

// --- DTOs ---

type StartRunRequest struct {
	PlanID    string `json:"planId" binding:"required"`
	StartDate string `json:"startDate" binding:"required"` // "2006-01-02"
}

type SetLogRequest struct {
	TargetWeight    float64 `json:"targetWeight"`
	TargetReps      int     `json:"targetReps"`
	TargetRIR       int     `json:"targetRir"`
	PerformedWeight float64 `json:"performedWeight"`
	PerformedReps   int     `json:"performedReps"`
	PerformedRIR    int     `json:"performedRir"`
}

type ExerciseLogRequest struct {
	Name string          `json:"name" binding:"required"`
	Sets []SetLogRequest `json:"sets" binding:"omitempty,dive"`
}

type CompleteDayRequest struct {
	Exercises []ExerciseLogRequest `json:"exercises" binding:"omitempty,dive"`
}

type RequestUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
	ContentType string `json:"contentType" binding:"required"`
}

// --- Handler Methods ---

// StartRun starts a new mesocycle run from a plan.
func (h *RunHandler) StartRun(c *gin.Context) {
	var req StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid start date; expected YYYY-MM-DD.")
		return
	}

	run, err := h.runService.StartRun(c.Request.Context(), userID, planID, startDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStartDate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrActiveRunExists):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, schedule.ErrInvalidCycleDefinition):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPlanAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to start run.")
		}
		return
	}

	c.JSON(http.StatusCreated, run)
}

// StopRun stops the athlete's current run, truncating its end date to today.
func (h *RunHandler) StopRun(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	runID, err := primitive.ObjectIDFromHex(c.Param("runId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid run ID format.")
		return
	}

	run, err := h.runService.StopRun(c.Request.Context(), userID, runID)
	if err != nil {
		if errors.Is(err, service.ErrNotCurrentRun) {
			// Stale request (double submission or foreign run id); the client
			// should simply refresh its view of the current run.
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to stop run.")
		}
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetActiveRun returns the athlete's current run.
func (h *RunHandler) GetActiveRun(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	run, err := h.runService.GetActiveRun(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRun) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve active run.")
		}
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetRunHistory lists all of the athlete's runs, newest first.
func (h *RunHandler) GetRunHistory(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	runs, err := h.runService.GetRunHistory(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve run history.")
		return
	}
	if runs == nil {
		c.JSON(http.StatusOK, []domain.MesocycleRun{})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetRunCalendar returns the full projected day strip of the active run.
func (h *RunHandler) GetRunCalendar(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	days, err := h.runService.RunCalendar(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRun) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to project calendar.")
		}
		return
	}
	c.JSON(http.StatusOK, days)
}

// GetDay answers "what's on date X" for the active run. A date outside the
// run window returns scheduled=false, not an error status.
func (h *RunHandler) GetDay(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'date' is required (YYYY-MM-DD).")
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date; expected YYYY-MM-DD.")
		return
	}

	view, err := h.runService.DayOnDate(c.Request.Context(), userID, date)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRun) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to resolve date.")
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// CompleteDay records a finished session against an occurrence.
func (h *RunHandler) CompleteDay(c *gin.Context) {
	var req CompleteDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	runID, err := primitive.ObjectIDFromHex(c.Param("runId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid run ID format.")
		return
	}
	occurrenceID := c.Param("occurrenceId")

	occ, err := h.runService.CompleteTrainingDay(c.Request.Context(), userID, runID, occurrenceID, mapExerciseLogs(req.Exercises))
	if err != nil {
		mapRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, occ)
}

// RequestUpload returns a presigned PUT URL for a form-check attachment.
func (h *RunHandler) RequestUpload(c *gin.Context) {
	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	runID, err := primitive.ObjectIDFromHex(c.Param("runId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid run ID format.")
		return
	}

	resp, err := h.attachmentService.RequestUploadURL(c.Request.Context(), userID, runID, c.Param("occurrenceId"), req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrUploadNotAllowed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		mapRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload persists attachment metadata after the S3 upload succeeded.
func (h *RunHandler) ConfirmUpload(c *gin.Context) {
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	runID, err := primitive.ObjectIDFromHex(c.Param("runId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid run ID format.")
		return
	}

	upload, err := h.attachmentService.ConfirmUpload(c.Request.Context(), userID, runID, c.Param("occurrenceId"), req.ObjectKey, req.FileName, req.Size, req.ContentType)
	if err != nil {
		mapRunError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// GetAttachments lists the occurrence's attachments with download URLs.
func (h *RunHandler) GetAttachments(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	runID, err := primitive.ObjectIDFromHex(c.Param("runId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid run ID format.")
		return
	}

	views, err := h.attachmentService.GetOccurrenceAttachments(c.Request.Context(), userID, runID, c.Param("occurrenceId"))
	if err != nil {
		mapRunError(c, err)
		return
	}
	if views == nil {
		views = []service.AttachmentView{}
	}
	c.JSON(http.StatusOK, views)
}

// --- Helpers ---

func mapRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRunNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRunAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrOccurrenceNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrOccurrenceClosed):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process run request.")
	}
}

func mapExerciseLogs(reqs []ExerciseLogRequest) []domain.ExerciseLog {
	if len(reqs) == 0 {
		return nil
	}
	logs := make([]domain.ExerciseLog, len(reqs))
	for i, r := range reqs {
		logs[i] = domain.ExerciseLog{Name: r.Name}
		for _, s := range r.Sets {
			logs[i].Sets = append(logs[i].Sets, domain.SetLog{
				TargetWeight:    s.TargetWeight,
				TargetReps:      s.TargetReps,
				TargetRIR:       s.TargetRIR,
				PerformedWeight: s.PerformedWeight,
				PerformedReps:   s.PerformedReps,
				PerformedRIR:    s.PerformedRIR,
			})
		}
	}
	return logs
}
