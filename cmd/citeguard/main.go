package main

import (
	"log"
	"strconv"

	"github.com/aihub/citeguard-go/app/bootstrap"
	"github.com/aihub/citeguard-go/app/router"
	"github.com/aihub/citeguard-go/internal/config"
	"github.com/aihub/citeguard-go/internal/logger"
	"github.com/beego/beego/v2/server/web"
	"go.uber.org/zap"
)

func main() {
	app, err := bootstrap.Init()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer app.Shutdown()

	router.Init(app.ValidationService, app.DocumentService, app.RetrievalService)

	web.BConfig.AppName = "Citation Guard Service"
	web.BConfig.CopyRequestBody = true
	if p, err := strconv.Atoi(config.AppConfig.Server.Port); err == nil {
		web.BConfig.Listen.HTTPPort = p
	}

	logger.Info("🚀 Starting Citation Guard Service", zap.Int("port", web.BConfig.Listen.HTTPPort))
	web.Run()
}
