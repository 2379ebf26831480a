package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopcore/accounts-server/internal/api/http/handler"
	"github.com/shopcore/accounts-server/internal/api/http/middleware"
	"github.com/shopcore/accounts-server/internal/model"
)

// Deps collects everything the router needs to wire routes.
type Deps struct {
	Auth         *handler.Auth
	User         *handler.User
	Address      *handler.Address
	Authenticate *middleware.Authenticate
	Logging      *middleware.Logging
}

// New builds the gin engine with all routes mounted under /api/v1.
func New(deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(deps.Logging.Handler())

	v1 := engine.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authenticated := deps.Authenticate.Handler()

	auth := v1.Group("/auth")
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/login/test-token", authenticated, deps.Auth.TestToken)
		auth.POST("/logout", deps.Auth.Logout)
		auth.POST("/refresh", authenticated, deps.Auth.Refresh)
	}

	// Signup alias for clients registering through the users resource.
	v1.POST("/users/signup", deps.Auth.Register)

	users := v1.Group("/users", authenticated)
	{
		users.GET("/me", deps.User.GetMe)
		users.PATCH("/me", deps.User.UpdateMe)
		users.PATCH("/me/password", deps.User.ChangePassword)
		users.DELETE("/me", deps.User.DeleteMe)

		users.POST("", middleware.RequireRoles(model.RoleAdmin), deps.User.Create)
		users.GET("", middleware.RequireRoles(model.RoleAdmin, model.RoleManager), deps.User.List)

		users.GET("/:id", deps.User.GetByID)
		users.PATCH("/:id", middleware.RequireRoles(model.RoleAdmin), deps.User.Update)
		users.DELETE("/:id", middleware.RequireRoles(model.RoleAdmin), deps.User.Delete)
	}

	addresses := v1.Group("/addresses", authenticated)
	{
		addresses.POST("", deps.Address.Create)
		addresses.GET("/me", deps.Address.ListMine)
		addresses.GET("/:id", deps.Address.Get)
		addresses.PUT("/:id", deps.Address.Update)
		addresses.DELETE("/:id", deps.Address.Delete)
		addresses.POST("/:id/set-default", deps.Address.SetDefault)
	}

	return engine
}
