package main

import (
	"github.com/eleven-am/vision-nav/internal/bootstrap"
)

// @title Vision Navigation API
// @version 1.0.0
// @description API server for vision-guided navigation

// @host api.vision-nav.example.com
// @BasePath /api

// @securityDefinitions.apikey VisionToken
// @in header
// @name Authorization

func main() {
	bootstrap.Run()
}
