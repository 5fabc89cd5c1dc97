package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"studio-api/config"
	"studio-api/middleware"
	"studio-api/models"
	"studio-api/services"
)

// RegisterRoutes wires every endpoint onto the engine. The route table below
// is the single place where authentication and role requirements are
// composed, per route, at startup.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, db *gorm.DB) {
	store := services.NewUserStore(db)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpires)

	authHandler := NewAuthHandler(store, tokens)
	userHandler := NewUserHandler(store, tokens)

	authn := middleware.Auth(store, tokens)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r.GET("/health", Health(cfg.APIVersion))

	base := "/api/" + cfg.APIVersion

	auth := r.Group(base + "/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/profile", authn, authHandler.Profile)
		auth.POST("/refresh", authn, authHandler.Refresh)
		auth.POST("/logout", authn, authHandler.Logout)
	}

	users := r.Group(base+"/users", authn)
	{
		users.PUT("/profile", userHandler.UpdateProfile)
		users.PUT("/password", userHandler.ChangePassword)
		users.DELETE("/deactivate", userHandler.Deactivate)

		users.GET("", adminOnly, userHandler.List)
		users.GET("/:id", adminOnly, userHandler.Get)
		users.DELETE("/:id", adminOnly, userHandler.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "The route " + c.Request.URL.Path + " does not exist",
			"available_routes": []string{
				base + "/auth",
				base + "/users",
			},
		})
	})
}
