package api

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"carpool-backend-go/internal/config"
	"carpool-backend-go/internal/core"
	"carpool-backend-go/internal/middleware"
)

// SetupRoutes configures all application routes. Global middleware (logging,
// recovery, CORS) is expected to already be applied to the router in main.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	firebaseAuthClient *auth.Client,
	userService core.UserService,
	groupService core.GroupService,
	rideService core.RideService,
	chatService core.ChatService,
) {
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, logger)

	userHandler := NewUserHandler(userService, logger)
	groupHandler := NewGroupHandler(groupService, logger)
	rideHandler := NewRideHandler(rideService, logger)
	chatHandler := NewChatHandler(chatService, logger)
	watchHandler := NewWatchHandler(rideService, groupService, chatService, appConfig.ClientURL, logger)

	apiV1 := router.Group("/api/v1")
	{
		users := apiV1.Group("/users")
		{
			// Called after client-side Firebase login to provision the profile.
			users.POST("/initialize", authMW.VerifyToken(), userHandler.InitializeProfile)
			users.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentProfile)
			users.GET("/:userId", authMW.VerifyToken(), userHandler.GetUser)
			users.PUT("/:userId/vehicles", authMW.VerifyToken(), userHandler.SetVehicle)
			users.DELETE("/:userId/vehicles/:carId", authMW.VerifyToken(), userHandler.DeleteVehicle)
		}

		groups := apiV1.Group("/groups", authMW.VerifyToken())
		{
			groups.POST("", groupHandler.CreateGroup)
			groups.GET("/:groupId", groupHandler.GetGroup)
			groups.PUT("/:groupId/members", groupHandler.SetMember)
			groups.PUT("/:groupId/rides", groupHandler.SetRide)
			groups.PUT("/:groupId/banner", groupHandler.SetBanner)
			groups.PUT("/:groupId/profile-pic", groupHandler.SetProfilePic)
			groups.POST("/:groupId/chat", chatHandler.SendGroupMessage)
			groups.GET("/:groupId/chat", chatHandler.GetGroupMessages)
		}

		rides := apiV1.Group("/rides", authMW.VerifyToken())
		{
			rides.POST("", rideHandler.CreateRide)
			rides.GET("/:rideId", rideHandler.GetRide)
			rides.POST("/:rideId/pickups", rideHandler.AddPickup)
			rides.PUT("/:rideId/pickups/:pickupId/members", rideHandler.JoinPickup)
			rides.DELETE("/:rideId/members/:userId", rideHandler.LeaveAllPickups)
			rides.PUT("/:rideId/driver", rideHandler.AssignDriver)
			rides.DELETE("/:rideId/driver", rideHandler.ClearDriver)
			rides.PUT("/:rideId/start", rideHandler.SelectStart)
			rides.PUT("/:rideId/passengers", rideHandler.SetPassenger)
			rides.GET("/:rideId/passengers", rideHandler.GetPassengers)
			rides.POST("/:rideId/complete", rideHandler.CompleteRide)
			rides.GET("/:rideId/route", rideHandler.GetRoute)
			rides.POST("/:rideId/chat", chatHandler.SendRideMessage)
			rides.GET("/:rideId/chat", chatHandler.GetRideMessages)
		}

		// Watch endpoints authenticate at upgrade time like any other route.
		watch := apiV1.Group("/watch", authMW.VerifyToken())
		{
			watch.GET("/rides/:rideId", watchHandler.WatchRide)
			watch.GET("/rides/:rideId/route", watchHandler.WatchRoute)
			watch.GET("/rides/:rideId/chat", watchHandler.WatchRideChat)
			watch.GET("/groups/:groupId", watchHandler.WatchGroup)
			watch.GET("/groups/:groupId/chat", watchHandler.WatchGroupChat)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Carpool backend is healthy."})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("API routes configured successfully under /api/v1, /health, and /metrics.")
}
