package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/porter/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(auth *service.AuthService, users *service.UserService, cookies CookieConfig) *gin.Engine {
	router := gin.Default()

	handlers := NewHandlers(auth, users, cookies)
	guard := AuthMiddleware(auth)

	authGroup := router.Group("/auth")
	{
		authGroup.GET("/nonce", handlers.Nonce)
		authGroup.POST("/sign-in", handlers.SignIn)
		authGroup.POST("/refresh", handlers.Refresh)
		authGroup.POST("/sign-out", handlers.SignOut)
		authGroup.GET("/session", guard, handlers.Session)
	}

	userGroup := router.Group("/user")
	userGroup.Use(guard)
	{
		userGroup.GET("/profile", handlers.Profile)
		userGroup.PUT("/profile", handlers.UpdateProfile)
	}

	return router
}
