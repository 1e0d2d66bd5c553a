package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"fittrack/internal/domain"
	"fittrack/internal/service"
	"fittrack/internal/token"
)

// RateLimit bounds register/login attempts per client IP.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// SetupRoutes wires all handlers under /api/v1. Reads on the catalog routes
// are open; mutations require a token and, where noted, the admin role. A nil
// redis client disables the auth rate limit.
func SetupRoutes(
	router *gin.Engine,
	tokens *token.Manager,
	rdb *redis.Client,
	rl RateLimit,
	authService service.AuthService,
	categoryService service.CategoryService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	userService service.UserService,
) {
	authHandler := NewAuthHandler(authService)
	categoryHandler := NewCategoryHandler(categoryService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	userHandler := NewUserHandler(userService)

	authMW := AuthMiddleware(tokens)
	adminMW := RequireRoles(domain.RoleAdmin)
	limited := RateLimitMiddleware(rdb, rl.Requests, rl.Window)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	auth := apiV1.Group("/auth")
	{
		auth.POST("/register", limited, authHandler.Register)
		auth.POST("/login", limited, authHandler.Login)
		auth.GET("/me", authMW, authHandler.Me)
		auth.POST("/logout", authMW, authHandler.Logout)
	}

	categories := apiV1.Group("/categories")
	{
		categories.GET("", categoryHandler.List)
		categories.GET("/:id", categoryHandler.Get)
		categories.POST("", authMW, adminMW, categoryHandler.Create)
		categories.POST("/bulk", authMW, adminMW, categoryHandler.CreateBulk)
		categories.PUT("/:id", authMW, adminMW, categoryHandler.Update)
		categories.DELETE("/:id", authMW, adminMW, categoryHandler.Delete)
		categories.DELETE("/bulk", authMW, adminMW, categoryHandler.DeleteBulk)
	}

	exercises := apiV1.Group("/exercises")
	{
		exercises.GET("", exerciseHandler.List)
		exercises.GET("/:id", exerciseHandler.Get)
		exercises.POST("", authMW, adminMW, exerciseHandler.Create)
		exercises.POST("/bulk", authMW, adminMW, exerciseHandler.CreateBulk)
		exercises.PUT("/:id", authMW, adminMW, exerciseHandler.Update)
		exercises.DELETE("/:id", authMW, adminMW, exerciseHandler.Delete)
		exercises.DELETE("/bulk", authMW, adminMW, exerciseHandler.DeleteBulk)

		exercises.POST("/:id/categories/:categoryId", authMW, adminMW, exerciseHandler.AddCategory)
		exercises.DELETE("/:id/categories/:categoryId", authMW, adminMW, exerciseHandler.RemoveCategory)

		exercises.POST("/:id/images", authMW, adminMW, exerciseHandler.RequestImageUpload)
	}

	images := apiV1.Group("/images")
	{
		images.GET("/:imageId/url", exerciseHandler.ImageDownloadURL)
		images.DELETE("/:imageId", authMW, adminMW, exerciseHandler.DeleteImage)
	}

	workouts := apiV1.Group("/workouts")
	{
		workouts.GET("", workoutHandler.List)
		workouts.GET("/:id", workoutHandler.Get)
		workouts.POST("", authMW, workoutHandler.Create)
		workouts.POST("/bulk", authMW, workoutHandler.CreateBulk)
		workouts.PUT("/:id", authMW, workoutHandler.Update)
		workouts.DELETE("/:id", authMW, workoutHandler.Delete)
		workouts.DELETE("/bulk", authMW, workoutHandler.DeleteBulk)

		workouts.POST("/:id/exercises", authMW, workoutHandler.AddExercise)
		workouts.DELETE("/:id/exercises/:entryId", authMW, workoutHandler.RemoveExercise)
	}

	users := apiV1.Group("/users", authMW)
	{
		users.GET("", adminMW, userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.POST("/:id/deactivate", adminMW, userHandler.Deactivate)
		users.POST("/:id/activate", adminMW, userHandler.Activate)
		users.POST("/:id/roles/:role", adminMW, userHandler.AssignRole)
		users.DELETE("/:id/roles/:role", adminMW, userHandler.RemoveRole)
	}
}
