package api

import (
	"alcyxob/hypertrophy-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	runService service.RunService,
	attachmentService service.AttachmentService,
) {

	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	runHandler := NewRunHandler(runService, attachmentService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})

		// --- Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.GetPlans)
			planGroup.GET("/:planId", planHandler.GetPlanByID)
			planGroup.PUT("/:planId", planHandler.UpdatePlan)
			planGroup.DELETE("/:planId", planHandler.DeletePlan)
		}

		// --- Run Routes ---
		runGroup := protected.Group("/runs")
		{
			// POST /api/v1/runs - start a run from a plan
			runGroup.POST("", runHandler.StartRun)
			// GET /api/v1/runs - run history
			runGroup.GET("", runHandler.GetRunHistory)
			// GET /api/v1/runs/current - the active run
			runGroup.GET("/current", runHandler.GetActiveRun)
			// GET /api/v1/runs/current/calendar - full projected day strip
			runGroup.GET("/current/calendar", runHandler.GetRunCalendar)
			// GET /api/v1/runs/current/day?date=YYYY-MM-DD - point lookup
			runGroup.GET("/current/day", runHandler.GetDay)
			// POST /api/v1/runs/{runId}/stop
			runGroup.POST("/:runId/stop", runHandler.StopRun)
			// POST /api/v1/runs/{runId}/days/{occurrenceId}/complete
			runGroup.POST("/:runId/days/:occurrenceId/complete", runHandler.CompleteDay)

			// --- Form-check attachments ---
			runGroup.POST("/:runId/days/:occurrenceId/attachments/request-upload", runHandler.RequestUpload)
			runGroup.POST("/:runId/days/:occurrenceId/attachments/confirm", runHandler.ConfirmUpload)
			runGroup.GET("/:runId/days/:occurrenceId/attachments", runHandler.GetAttachments)
		}
	}
}
