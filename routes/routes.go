package routes

import (
	"time"

	"devconnect/handlers"
	"devconnect/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes (no auth required)
	authLimiter := middleware.NewIPRateLimiter(60, time.Minute)
	router.POST("/api/users", authLimiter.Middleware(), handlers.Register)
	router.POST("/api/auth", authLimiter.Middleware(), handlers.Login)
	router.GET("/api/profile", handlers.GetProfiles)
	router.GET("/api/profile/user/:user_id", handlers.GetProfileByUser)

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	protected.GET("/auth", handlers.GetAuthedUser)

	// Posts
	protected.POST("/posts", handlers.CreatePost)
	protected.GET("/posts", handlers.GetPosts)
	protected.GET("/posts/:id", handlers.GetPost)
	protected.DELETE("/posts/:id", handlers.DeletePost)
	protected.PUT("/posts/like/:id", handlers.LikePost)
	protected.PUT("/posts/unlike/:id", handlers.UnlikePost)
	protected.POST("/posts/comment/:id", handlers.CreateComment)
	// Nested under :id because gin's tree cannot mix a static "comment"
	// segment with the :id wildcard in the same method tree.
	protected.DELETE("/posts/:id/comment/:comment_id", handlers.DeleteComment)

	// Profile
	protected.GET("/profile/me", handlers.GetMyProfile)
	protected.POST("/profile", handlers.UpsertProfile)
	protected.DELETE("/profile", handlers.DeleteProfile)

	// JSON 404 for unknown API routes
	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
