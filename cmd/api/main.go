package main

import (
	"os"

	"github.com/seyi/unimark/internal/pkg/logger"
	"github.com/seyi/unimark/internal/server"
)

// @title UniMark API
// @version 1.0
// @description QR-code attendance tracking for university courses

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}
