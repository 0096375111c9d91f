package routes

import (
	"github.com/gin-gonic/gin"

	"taxpractice/internal/authz"
	"taxpractice/internal/handlers"
	"taxpractice/internal/middleware"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	Users          *handlers.UserHandler
	Clients        *handlers.ClientHandler
	Engagements    *handlers.EngagementHandler
	Returns        *handlers.ReturnHandler
	Tasks          *handlers.TaskHandler
	Notices        *handlers.NoticeHandler
	Communications *handlers.CommunicationHandler
	Templates      *handlers.TemplateHandler
	Documents      *handlers.DocumentHandler
	Compliance     *handlers.ComplianceHandler
	Reports        *handlers.ReportHandler
	Portal         *handlers.PortalHandler
}

// Setup registers all routes. Auth runs first, then the read-only guard;
// management-only routes add an explicit role check.
func Setup(router *gin.Engine, jwtSecret string, h Handlers) {
	router.POST("/login", h.Auth.Login)

	api := router.Group("/")
	api.Use(middleware.Auth(jwtSecret))
	api.Use(middleware.ReadOnlyGuard())

	manage := middleware.RequireRoles(authz.RoleOwner, authz.RoleManager)

	users := api.Group("/users")
	{
		users.POST("", manage, h.Users.Create)
		users.DELETE("/:id", manage, h.Users.Deactivate)
		users.GET("/:id", h.Users.GetByID)
		users.GET("", h.Users.List)
	}

	clients := api.Group("/clients")
	{
		clients.POST("", h.Clients.Create)
		clients.PUT("/:id", h.Clients.Update)
		clients.DELETE("/:id", manage, h.Clients.Delete)
		clients.GET("/:id", h.Clients.GetByID)
		clients.GET("", h.Clients.List)
		clients.GET("/:id/portal", h.Portal.View)
	}

	engagements := api.Group("/engagements")
	{
		engagements.POST("", h.Engagements.Create)
		engagements.PUT("/:id", h.Engagements.Update)
		engagements.POST("/:id/status", h.Engagements.ChangeStatus)
		engagements.GET("/:id", h.Engagements.GetByID)
		engagements.GET("", h.Engagements.List)
		engagements.GET("/:id/letter", h.Engagements.Letter)
	}

	returns := api.Group("/returns")
	{
		returns.POST("", h.Returns.Create)
		returns.PUT("/:id", h.Returns.Update)
		returns.POST("/:id/status", h.Returns.ChangeStatus)
		returns.GET("/:id", h.Returns.GetByID)
		returns.GET("", h.Returns.List)
	}

	tasks := api.Group("/tasks")
	{
		tasks.POST("", h.Tasks.Create)
		tasks.PUT("/:id", h.Tasks.Update)
		tasks.POST("/:id/status", h.Tasks.ChangeStatus)
		tasks.POST("/:id/reopen", h.Tasks.Reopen)
		tasks.DELETE("/:id", h.Tasks.Delete)
		tasks.GET("/:id", h.Tasks.GetByID)
		tasks.GET("", h.Tasks.List)
	}

	notices := api.Group("/notices")
	{
		notices.POST("", h.Notices.Create)
		notices.POST("/:id/status", h.Notices.ChangeStatus)
		notices.POST("/:id/analyze", h.Notices.Analyze)
		notices.GET("/:id", h.Notices.GetByID)
		notices.GET("", h.Notices.List)
	}

	comms := api.Group("/communications")
	{
		comms.POST("/send", h.Communications.Send)
		comms.POST("/inbound", h.Communications.LogInbound)
		comms.POST("/:id/status", h.Communications.ChangeStatus)
		comms.GET("/:id", h.Communications.GetByID)
		comms.GET("", h.Communications.List)
	}

	templates := api.Group("/templates")
	{
		templates.POST("", manage, h.Templates.Create)
		templates.PUT("/:id", manage, h.Templates.Update)
		templates.DELETE("/:id", manage, h.Templates.Delete)
		templates.GET("/:id", h.Templates.GetByID)
		templates.GET("", h.Templates.List)
	}

	documents := api.Group("/documents")
	{
		documents.POST("", h.Documents.Upload)
		documents.GET("/:id", h.Documents.GetByID)
		documents.GET("/:id/download", h.Documents.Download)
		documents.POST("/:id/verify", h.Documents.Verify)
		documents.GET("", h.Documents.List)
	}

	// The activity log is restricted to management and the auditor.
	compliance := api.Group("/compliance")
	compliance.Use(middleware.RequireRoles(authz.RoleOwner, authz.RoleManager, authz.RoleAuditor))
	{
		compliance.GET("", h.Compliance.List)
		compliance.GET("/export", h.Compliance.ExportCSV)
	}

	api.GET("/reports/dashboard", h.Reports.Dashboard)
}
