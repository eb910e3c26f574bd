package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-server/internal/cache"
	"clinic-server/internal/handlers"
	"clinic-server/internal/messaging"
	"clinic-server/internal/monitoring"
	"clinic-server/internal/repository"
	"clinic-server/internal/service"
)

// SetupRoutes configures the application routes. producer and cacheClient
// may be nil when the corresponding infrastructure is not configured.
func SetupRoutes(router *gin.Engine, db *gorm.DB, producer messaging.Producer, cacheClient cache.Client) {
	clientRepo := repository.NewClientRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	visitService := service.NewVisitService(visitRepo)

	clientHandler := handlers.NewClientHandler(clientRepo, visitService, producer, cacheClient)
	doctorHandler := handlers.NewDoctorHandler(doctorRepo, visitService, producer)
	visitHandler := handlers.NewVisitHandler(visitService, producer)

	api := router.Group("/api/v1")
	{
		clientRoutes := api.Group("/clients")
		{
			clientRoutes.POST("", clientHandler.CreateClient)
			clientRoutes.GET("", clientHandler.FindClients)
			clientRoutes.GET("/:id", clientHandler.GetClient)
			clientRoutes.PATCH("/:id", clientHandler.UpdateClient)
			clientRoutes.GET("/:id/visits", clientHandler.ListClientVisits)
		}

		doctorRoutes := api.Group("/doctors")
		{
			doctorRoutes.POST("", doctorHandler.CreateDoctor)
			doctorRoutes.GET("", doctorHandler.FindDoctors)
			doctorRoutes.GET("/:id", doctorHandler.GetDoctor)
			doctorRoutes.PATCH("/:id", doctorHandler.UpdateDoctor)
			doctorRoutes.GET("/:id/visits", doctorHandler.ListDoctorVisits)
		}

		visitRoutes := api.Group("/visits")
		{
			visitRoutes.GET("", visitHandler.ListVisits)
			visitRoutes.POST("", visitHandler.CreateVisit)
			visitRoutes.GET("/:id", visitHandler.GetVisit)
			visitRoutes.PATCH("/:id", visitHandler.UpdateVisit)
			visitRoutes.DELETE("/:id", visitHandler.DeleteVisit)
		}
	}

	router.GET("/health", healthCheck(db))
	router.GET("/metrics", gin.WrapH(monitoring.Handler()))
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"details": gin.H{"database": "unavailable"},
				"error":   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"details": gin.H{"database": "available"},
		})
	}
}
