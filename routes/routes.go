package routes

import (
	"net/http"
	"time"

	"courtflow/handlers"
	"courtflow/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint onto the router.
func RegisterRoutes(r *gin.Engine, reservationHandler *handlers.ReservationHandler, directoryHandler *handlers.DirectoryHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	registerReservationRoutes(r, reservationHandler)
	registerDirectoryRoutes(r, directoryHandler)
}

// registerReservationRoutes registers the draft workflow endpoints.
func registerReservationRoutes(r *gin.Engine, h *handlers.ReservationHandler) {
	api := r.Group("/api/reservation")
	{
		api.POST("/draft", h.StartDraft)                      // Phase 1: start draft
		api.GET("/draft/:draftID", h.GetDraft)                // Snapshot + validation
		api.PATCH("/draft/:draftID/field", h.SetDraftField)   // Phase 2: selection
		api.POST("/draft/:draftID/submit", h.SubmitDraft)     // Phase 3: submit
		api.DELETE("/draft/:draftID", h.CancelDraft)          // Cancel
		api.GET("/records", h.ListRecords)                    // Submission trail
	}
}

// registerDirectoryRoutes registers the read-only directory endpoints.
func registerDirectoryRoutes(r *gin.Engine, h *handlers.DirectoryHandler) {
	api := r.Group("/api/directory")
	{
		api.GET("/venues", h.SearchVenues)
		api.GET("/venues/:venueID/resources", h.ListVenueResources)
		api.GET("/counterparties", h.SearchCounterparties)
	}
}
