package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/anandr/kuliahku/internal/app/controllers"
	"github.com/anandr/kuliahku/internal/app/models/dto"
	"github.com/anandr/kuliahku/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	taskController *controllers.TaskController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authProtected := authenticated.Group("/auth")
		{
			authProtected.POST("/logout", authController.Logout)
			authProtected.GET("/session", authController.Session)
		}

		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.ListCourses)
			courses.GET("/:id", courseController.GetCourse)
			courses.POST("", courseController.CreateCourse)
			courses.PATCH("/:id", courseController.UpdateCourse)
			courses.DELETE("/:id", courseController.DeleteCourse)
		}

		tasks := authenticated.Group("/tasks")
		{
			tasks.GET("", taskController.ListTasks)
			tasks.GET("/:id", taskController.GetTask)
			tasks.POST("", taskController.CreateTask)
			tasks.PATCH("/:id", taskController.UpdateTask)
			tasks.DELETE("/:id", taskController.DeleteTask)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})

	// Swagger routes are set up in bootstrap.go already
}
