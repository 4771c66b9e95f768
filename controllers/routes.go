package controllers

import (
	"log"
	"net/http"

	"portfolio/middlewares"
	"portfolio/realtime"
	"portfolio/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Auth     *services.AuthService
	Posts    *services.PostService
	Projects *services.ProjectService
	Hub      *realtime.Hub
	Log      *log.Logger

	AllowedOrigins []string
	CookieSecure   bool
	// UploadDir is served under /uploads when set.
	UploadDir          string
	MaxMultipartMemory int64
	// MaxBodyBytes caps post and project request bodies. Zero means no cap.
	MaxBodyBytes int64
}

// NewRouter wires every route onto a new gin engine.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if d.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = d.MaxMultipartMemory
	}

	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "portfolio api is running"})
	})
	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	authCtl := NewAuthController(d.Auth, d.CookieSecure, d.Log)
	posts := NewPostController(d.Posts, d.Log)
	projects := NewProjectController(d.Projects, d.Log)
	requireAuth := middlewares.AuthMiddleware(d.Auth)

	api := r.Group("/api/v1")
	api.POST("/register", authCtl.Register)
	api.POST("/login", authCtl.Login)
	api.POST("/logout", authCtl.Logout)
	api.GET("/profile", requireAuth, authCtl.Profile)

	api.GET("/post", posts.List)
	api.GET("/post/:id", posts.Get)
	api.GET("/project", projects.List)
	api.GET("/project/:id", projects.Get)

	// Protected routes
	auth := api.Group("/")
	auth.Use(requireAuth)
	limit := limitBody(d.MaxBodyBytes)
	auth.POST("/post", limit, posts.Create)
	auth.PUT("/post/:id", limit, posts.Update)
	auth.DELETE("/post/:id", posts.Delete)
	auth.POST("/project", limit, projects.Create)
	auth.PUT("/project/:id", limit, projects.Update)
	auth.DELETE("/project/:id", projects.Delete)
	if d.Hub != nil {
		auth.GET("/feed", HandleFeed(d.Hub))
	}

	return r
}

// limitBody stops reading request bodies after n bytes so oversized uploads
// are refused before they are spooled to disk.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
