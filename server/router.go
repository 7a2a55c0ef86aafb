package server

import (
	"net/http"
	"time"

	"panorama-api/domain/repository"
	httpHandler "panorama-api/interfaces/http"
	"panorama-api/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	panoramaHandler httpHandler.IPanoramaHandler,
	tagHandler httpHandler.ITagHandler,
	instagramHandler httpHandler.IInstagramHandler,
	userRepository repository.IUser,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:5173", "https://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", userHandler.Login)
	router.POST("/register", userHandler.Register)
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")
	api.Use(middleware.Auth(userRepository))

	api.GET("/panoramas", panoramaHandler.List)
	api.GET("/panoramas/archived", panoramaHandler.ListArchived)
	api.GET("/panoramas/:id", panoramaHandler.Get)
	api.POST("/panoramas", panoramaHandler.Create)
	api.PUT("/panoramas/:id", panoramaHandler.Update)
	api.POST("/panoramas/:id/archive", panoramaHandler.Archive)
	api.POST("/panoramas/:id/restore", panoramaHandler.Restore)
	api.DELETE("/panoramas/:id", panoramaHandler.Delete)
	api.POST("/panoramas/upload", panoramaHandler.Upload)

	api.GET("/tags", tagHandler.List)

	api.POST("/instagram/post", instagramHandler.Post)
	api.GET("/instagram/history/:imageId", instagramHandler.History)
	api.GET("/admin/instagram-token/status", instagramHandler.TokenStatus)
	api.POST("/admin/instagram-token/refresh", instagramHandler.TokenRefresh)
	api.POST("/admin/instagram-token/import", instagramHandler.TokenImport)

	return router
}
