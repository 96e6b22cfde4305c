package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/fixlab-academy-api/api/swagger"
	"github.com/noah-isme/fixlab-academy-api/internal/handler"
	"github.com/noah-isme/fixlab-academy-api/internal/middleware"
	"github.com/noah-isme/fixlab-academy-api/internal/models"
	"github.com/noah-isme/fixlab-academy-api/pkg/config"
	"github.com/noah-isme/fixlab-academy-api/pkg/logger"
	"github.com/noah-isme/fixlab-academy-api/pkg/middleware/requestid"
)

func (a *App) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(a.Logger))
	r.Use(cors.New(corsConfig(a.Config.CORS.AllowedOrigins)))
	r.Use(middleware.Metrics(a.services.metrics))

	metricsHandler := handler.NewMetricsHandler(a.services.metrics, a.services.health)
	registrationHandler := handler.NewRegistrationHandler(a.Registrations)
	adminHandler := handler.NewAdminHandler(a.Registrations, a.Reminders)
	courseHandler := handler.NewCourseHandler(a.services.courses)
	blogHandler := handler.NewBlogHandler(a.services.blog, a.services.newsletter)
	authHandler := handler.NewAuthHandler(a.services.auth)

	r.GET("/health", metricsHandler.Health)
	if a.Config.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if a.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(a.Config.APIPrefix)

	registrations := api.Group("/registrations")
	registrations.POST("", registrationHandler.Initiate)
	registrations.GET("/verify", registrationHandler.Verify)
	registrations.GET("/check", registrationHandler.Check)
	registrations.GET("/:reference/receipt", registrationHandler.Receipt)

	api.POST("/payments/webhook", registrationHandler.Webhook)
	api.POST("/payments/webhook/:provider", registrationHandler.Webhook)

	api.GET("/courses", courseHandler.List)
	api.GET("/courses/:name", courseHandler.Get)

	api.POST("/auth/login", authHandler.Login)

	blog := api.Group("/blog")
	blog.GET("/posts", blogHandler.ListPosts)
	blog.GET("/posts/:id", blogHandler.GetPost)
	blog.GET("/categories", blogHandler.ListCategories)
	blog.GET("/posts/:id/comments", blogHandler.ListComments)
	blog.POST("/posts/:id/comments", blogHandler.AddComment)
	blog.POST("/subscribe", blogHandler.Subscribe)
	blog.GET("/unsubscribe/:email", blogHandler.Unsubscribe)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(a.services.auth))
	admin.GET("/me", authHandler.Me)

	staff := admin.Group("")
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))
	staff.GET("/registrations", adminHandler.ListRegistrations)
	staff.GET("/registrations/export", adminHandler.ExportRegistrations)
	staff.POST("/reminders/sweep", adminHandler.SweepReminders)

	owners := admin.Group("")
	owners.Use(middleware.RequireRoles(models.RoleAdmin))
	owners.POST("/courses", courseHandler.Create)
	owners.PUT("/courses/:id", courseHandler.Update)
	owners.POST("/blog/posts", blogHandler.CreatePost)

	return r
}
