package router

import (
	"github.com/aihub/citeguard-go/app/controllers"
	"github.com/aihub/citeguard-go/app/middleware"
	"github.com/aihub/citeguard-go/internal/services"
	"github.com/beego/beego/v2/server/web"
)

// Init 注册全部路由，必须在配置加载后调用
func Init(
	validationService *services.ValidationService,
	documentService *services.DocumentService,
	retrievalService *services.RetrievalService,
) {
	web.Router("/", &controllers.RootController{}, "get:Index")
	web.Router("/health", &controllers.HealthController{}, "get:Health")
	web.Router("/metrics", &controllers.MetricsController{}, "get:Metrics")

	web.InsertFilter("/*", web.BeforeRouter, middleware.CORSMiddleware)

	validationController := controllers.NewValidationController(validationService)
	web.Router("/api/v1/validate", validationController, "post:Validate")

	documentController := controllers.NewDocumentController(documentService)
	web.Router("/api/v1/documents", documentController, "get:List")
	web.Router("/api/v1/documents/:id/content", documentController, "get:Content")

	retrievalController := controllers.NewRetrievalController(retrievalService)
	web.Router("/api/v1/retrieve", retrievalController, "get:Retrieve")
}
