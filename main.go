package main

import (
	"stagecrew-api/core/logger"
	"stagecrew-api/core/server"
)

// @title StageCrew API
// @version 1.0
// @description Venue crew scheduling and workforce assignment backend

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
