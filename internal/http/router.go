package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/http/handlers"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/service"
)

// NewRouter assembles the gin engine with the booking API surface.
func NewRouter(
	slotService *service.SlotService,
	bookingService *service.BookingService,
	scheduleService *service.ScheduleService,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	h := handlers.New(slotService, bookingService, scheduleService, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/slots", h.CreateSlot)
		api.GET("/slots", h.ListSlots)
		api.GET("/slots/:id", h.GetSlot)
		api.GET("/slots/:id/occupancy", h.Occupancy)
		api.GET("/slots/:id/bookings", h.ListSlotBookings)
		api.POST("/slots/:id/activate", h.ActivateSlot)
		api.POST("/slots/:id/deactivate", h.DeactivateSlot)
		api.DELETE("/slots/:id", h.DeleteSlot)

		api.POST("/bookings", h.CreateBooking)
		api.POST("/bookings/:id/status", h.TransitionBooking)
		api.GET("/clients/:id/bookings", h.ListClientBookings)

		api.GET("/schedule/day/:date", h.SlotsForDay)
		api.GET("/schedule/week/:start", h.SlotsForWeek)
		api.GET("/schedule/week/:start/image", h.WeekImage)
	}

	return r
}
