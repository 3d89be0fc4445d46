package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/favorite_api/internal/handlers"
	"github.com/Skotchmaster/favorite_api/internal/token"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	ClientHandler   *handlers.ClientHandler
	ProductHandler  *handlers.ProductHandler
	FavoriteHandler *handlers.FavoriteHandler
	QueueHandler    *handlers.FavoriteQueueHandler
	QueryHandler    *handlers.QueryHandler
	Tokens          *token.Service
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/auth/signup", d.AuthHandler.Signup)
	v1.POST("/auth/login", d.AuthHandler.Login)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)

	v1.GET("/query/favorites", d.QueryHandler.Favorites)

	auth := v1.Group("", d.Tokens.Middleware)

	auth.GET("/clients", d.ClientHandler.List)
	auth.POST("/clients", d.ClientHandler.Create)
	auth.GET("/clients/:id", d.ClientHandler.Get)
	auth.PUT("/clients/:id", d.ClientHandler.Update)
	auth.DELETE("/clients/:id", d.ClientHandler.Delete)

	auth.GET("/favorites/:client_id", d.FavoriteHandler.List)
	auth.POST("/favorites/:client_id", d.FavoriteHandler.Create)
	auth.DELETE("/favorites/:client_id/:product_id", d.FavoriteHandler.Delete)

	auth.POST("/favorites-queue/:client_id", d.QueueHandler.Create)
	// broker-named path kept for clients of the earlier deployment
	auth.POST("/favorites-rabbit/:client_id", d.QueueHandler.Create)
}
