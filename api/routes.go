package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")

	api.GET("/health", h.Health)

	// Todo routes. "/api/todos/" reaches the collection through gin's
	// trailing-slash redirect.
	todos := api.Group("/todos")
	todos.POST("", h.CreateTodo)
	todos.GET("", h.ListTodos)
	todos.PUT("/:id", h.UpdateTodo)
	todos.DELETE("/:id", h.DeleteTodo)
}
