package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"admin-panel-api/api/openapi"
	"admin-panel-api/internal/adapter/gin/handler"
	"admin-panel-api/internal/adapter/gin/middleware"
	"admin-panel-api/internal/domain/user"
)

// Deps bundles everything the route table mounts.
type Deps struct {
	ServiceName string
	Telemetry   bool

	Auth        *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter

	Health   *handler.HealthHandler
	AuthN    *handler.AuthHandler
	Products *handler.ProductHandler
	Users    *handler.UserHandler

	Log *zap.Logger
}

// Setup configures and returns a Gin router with all routes and middleware.
// The route table is identical across profiles; with auth disabled the guards
// pass everything through.
func Setup(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(deps.Log))
	router.Use(middleware.RequestID())
	if deps.Telemetry {
		router.Use(otelgin.Middleware(deps.ServiceName))
		router.Use(middleware.Metrics())
	}
	router.Use(middleware.Logger(deps.Log))
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Handler())
	}

	// Public endpoints
	router.GET("/health", deps.Health.Check)
	router.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openapi.Doc)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/openapi.json"),
	)))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.POST("/auth/login", deps.AuthN.Login)

		authed := v1.Group("", deps.Auth.Authenticate())
		{
			authed.GET("/auth/me", deps.AuthN.Me)

			products := authed.Group("/products")
			{
				products.GET("", deps.Products.ListProducts)
				products.GET("/:id", deps.Products.GetProduct)

				editors := products.Group("", deps.Auth.RequireRole(user.RoleAdmin, user.RoleEditor))
				{
					editors.POST("", deps.Products.CreateProduct)
					editors.PUT("/:id", deps.Products.UpdateProduct)
					editors.DELETE("/:id", deps.Products.DeleteProduct)
				}
			}

			users := authed.Group("/users")
			{
				users.GET("", deps.Users.ListUsers)
				users.GET("/:id", deps.Users.GetUser)

				admins := users.Group("", deps.Auth.RequireRole(user.RoleAdmin))
				{
					admins.POST("", deps.Users.CreateUser)
					admins.PUT("/:id", deps.Users.UpdateUser)
					admins.DELETE("/:id", deps.Users.DeleteUser)
				}
			}
		}
	}

	return router
}
