// internal/api/plan_handler.go
package api

import (
	"alcyxob/hypertrophy-app/internal/domain"
	"alcyxob/hypertrophy-app/internal/schedule"
	"alcyxob/hypertrophy-app/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type SetTemplateRequest struct {
	TargetWeight float64 `json:"targetWeight" binding:"omitempty,gte=0"`
	TargetReps   int     `json:"targetReps" binding:"omitempty,gte=0"`
	TargetRIR    int     `json:"targetRir" binding:"omitempty,gte=0"`
}

type ExerciseTemplateRequest struct {
	Name string               `json:"name" binding:"required"`
	Sets []SetTemplateRequest `json:"sets" binding:"omitempty,dive"`
}

type TrainingDayRequest struct {
	DayNumber int                       `json:"dayNumber" binding:"required,gte=1"`
	Label     string                    `json:"label"`
	Exercises []ExerciseTemplateRequest `json:"exercises" binding:"omitempty,dive"`
}

type PlanRequest struct {
	Name            string               `json:"name" binding:"required"`
	Notes           string               `json:"notes"`
	TrainingDays    []TrainingDayRequest `json:"trainingDays" binding:"required,min=1,dive"`
	RestDayNumbers  []int                `json:"restDayNumbers"`
	MicrocycleCount int                  `json:"microcycleCount" binding:"required,gte=1"`
}

// --- Handler Methods ---

// CreatePlan creates a new mesocycle plan for the authenticated athlete.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, req.Name, req.Notes, mapTrainingDays(req.TrainingDays), req.RestDayNumbers, req.MicrocycleCount)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidCycleDefinition) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create plan.")
		}
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// GetPlans lists the athlete's plans.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}

	plans, err := h.planService.GetPlansByUser(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans.")
		return
	}
	if plans == nil {
		c.JSON(http.StatusOK, []domain.Mesocycle{}) // Return empty JSON array, not null
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlanByID fetches a single plan.
func (h *PlanHandler) GetPlanByID(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	plan, err := h.planService.GetPlanByID(c.Request.Context(), userID, planID)
	if err != nil {
		mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UpdatePlan rewrites a plan.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), userID, planID, req.Name, req.Notes, mapTrainingDays(req.TrainingDays), req.RestDayNumbers, req.MicrocycleCount)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidCycleDefinition) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		mapPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a plan.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := userIDFromRequest(c)
	if !ok {
		return
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		mapPlanError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Helpers ---

// userIDFromRequest extracts and parses the authenticated user's id,
// aborting the request on failure.
func userIDFromRequest(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}

func mapPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanHasActiveRun):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process plan request.")
	}
}

func mapTrainingDays(reqs []TrainingDayRequest) []domain.TrainingDayTemplate {
	days := make([]domain.TrainingDayTemplate, len(reqs))
	for i, r := range reqs {
		day := domain.TrainingDayTemplate{
			DayNumber: r.DayNumber,
			Label:     r.Label,
		}
		for _, e := range r.Exercises {
			tmpl := domain.ExerciseTemplate{Name: e.Name}
			for _, s := range e.Sets {
				tmpl.Sets = append(tmpl.Sets, domain.SetTemplate{
					TargetWeight: s.TargetWeight,
					TargetReps:   s.TargetReps,
					TargetRIR:    s.TargetRIR,
				})
			}
			day.Exercises = append(day.Exercises, tmpl)
		}
		days[i] = day
	}
	return days
}
