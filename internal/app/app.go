package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"taxpractice/internal/config"
	"taxpractice/internal/database"
	"taxpractice/internal/handlers"
	"taxpractice/internal/middleware"
	"taxpractice/internal/observability"
	"taxpractice/internal/pdf"
	"taxpractice/internal/repositories"
	"taxpractice/internal/routes"
	"taxpractice/internal/services"

	_ "taxpractice/docs"
)

func Run() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Server.LogLevel)
	defer log.Sync()

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	metrics := observability.NewMetrics()
	store := repositories.NewStore(db)

	mailer := services.NewEmailService(services.SMTPSettings{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUser,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.FromEmail,
	}, log)
	alerts := services.NewAlertService(cfg.Telegram.BotToken, cfg.Telegram.ChatID, log)
	letters := pdf.NewLetterGenerator(cfg.Files.RootDir, "Tax Practice")

	authService := services.NewAuthService(store, cfg.Auth.JWTSecret, log)
	userService := services.NewUserService(store, log)
	clientService := services.NewClientService(store, log)
	engagementService := services.NewEngagementService(store, log)
	returnService := services.NewReturnService(store, log, metrics)
	taskService := services.NewTaskService(store, log, alerts)
	noticeService := services.NewNoticeService(store, log, metrics, alerts)
	commService := services.NewCommunicationService(store, mailer, log)
	templateService := services.NewTemplateService(store, log)
	documentService := services.NewDocumentService(store, cfg.Files.RootDir, log)
	complianceService := services.NewComplianceService(store, log)
	reportService := services.NewReportService(store, log)
	portalService := services.NewPortalService(store, log)

	h := routes.Handlers{
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUserHandler(userService),
		Clients:        handlers.NewClientHandler(clientService),
		Engagements:    handlers.NewEngagementHandler(engagementService, clientService, letters),
		Returns:        handlers.NewReturnHandler(returnService),
		Tasks:          handlers.NewTaskHandler(taskService),
		Notices:        handlers.NewNoticeHandler(noticeService),
		Communications: handlers.NewCommunicationHandler(commService),
		Templates:      handlers.NewTemplateHandler(templateService),
		Documents:      handlers.NewDocumentHandler(documentService),
		Compliance:     handlers.NewComplianceHandler(complianceService),
		Reports:        handlers.NewReportHandler(reportService),
		Portal:         handlers.NewPortalHandler(portalService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.RequestLogger(log, metrics))

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, cfg.Auth.JWTSecret, h)

	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("server listening", zap.String("addr", listenAddr))
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
