// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"identity/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	GraphQLHandler *handler.GraphQLHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	graphQLHandler *handler.GraphQLHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		graphQLHandler: params.GraphQLHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	e.POST("/graphql", r.graphQLHandler.Execute)
	e.GET("/graphql", r.graphQLHandler.Execute)
}
