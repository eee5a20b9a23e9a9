package main

import (
	app "ad-campaign-builder/internal/app/server"
	"ad-campaign-builder/internal/config"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.Server.LogLevel)
	app.Run(cfg)
}
