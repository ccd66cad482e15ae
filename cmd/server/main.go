package main

import (
	"log"
	"net/http"

	"campus_commute/internal/config"
	"campus_commute/internal/logger"
	"campus_commute/internal/middleware"
	"campus_commute/internal/routes"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database backing the persistent store
	config.InitDB()

	// Setup Gin router on top of the store
	r := routes.SetupRouter(config.NewStore())

	// Recovery middleware
	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlog.SetLogger())

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
