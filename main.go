package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"studio-api/config"
	"studio-api/database"
	"studio-api/handlers"
	"studio-api/middleware"
	"studio-api/validation"
)

func main() {
	cfg := config.Load()

	db, err := database.Init(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}

	if err := database.SeedAdmin(db, cfg); err != nil {
		log.Fatal("Failed to seed admin user: ", err)
	}

	validation.Register()

	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RateLimit(cfg.RateLimitWindow, cfg.RateLimitMax))

	handlers.RegisterRoutes(r, cfg, db)

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := r.Run("0.0.0.0:" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
