package main

import (
	"log"

	_ "taskdash/docs"
	"taskdash/internal/config"
	"taskdash/internal/server"
)

// @title           Taskdash API
// @version         1.0
// @description     Role-based task dashboard in front of the task service.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
