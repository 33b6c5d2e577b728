package routes

import (
	"net/http"
	"time"

	"blogserver/handlers"
	"blogserver/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// LivenessText is what GET / answers, whether or not the store is reachable.
const LivenessText = "Blog making server is running"

func SetupRouter(h *handlers.Handler, allowedOrigin string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	// One trusted frontend, with cookies
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{allowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, LivenessText)
	})

	// Session token
	router.POST("/jwt", h.IssueToken)
	router.POST("/logout", h.Logout)

	// Comments
	router.POST("/comments", h.CreateComment)
	router.GET("/comments", h.ListComments)

	// Blog posts
	router.POST("/blogs", h.CreatePost)
	router.GET("/blogs", h.ListPosts)
	router.GET("/blogs/:id", h.GetPost)
	router.PUT("/blogs/:id", h.UpdatePost)

	// User accounts
	router.POST("/user", h.CreateUser)

	// Saved user data. GET takes either a record id or, behind the token
	// guard, the owner's email.
	router.POST("/userData", h.CreateUserData)
	router.GET("/userData/:key", h.GetUserData)
	router.DELETE("/userData/:id", h.DeleteUserData)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Endpoint not found",
			"path":    c.Request.URL.Path,
		})
	})

	return router
}
