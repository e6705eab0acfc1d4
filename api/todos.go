package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/todo-app/db"
	"github.com/xiaoyuanzhu-com/todo-app/log"
	"github.com/xiaoyuanzhu-com/todo-app/models"
)

var todosLogger = log.GetLogger("ApiTodos")

// CreateTodo handles POST /api/todos
func (h *Handlers) CreateTodo(c *gin.Context) {
	var body models.CreateTodoInput
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, MsgCreateFailed)
		return
	}

	todo, err := h.store.Create(c.Request.Context(), body)
	if err != nil {
		if db.IsValidation(err) {
			todosLogger.Debug().Err(err).Msg("rejected todo")
			RespondBadRequest(c, MsgCreateFailed)
			return
		}
		todosLogger.Error().Err(err).Msg("failed to create todo")
		RespondInternalError(c, MsgCreateFailed)
		return
	}

	c.JSON(http.StatusOK, todo)
}

// ListTodos handles GET /api/todos
func (h *Handlers) ListTodos(c *gin.Context) {
	todos, err := h.store.List(c.Request.Context())
	if err != nil {
		todosLogger.Error().Err(err).Msg("failed to list todos")
		RespondInternalError(c, MsgListFailed)
		return
	}

	// Ensure empty array instead of null
	if todos == nil {
		todos = []models.Todo{}
	}
	c.JSON(http.StatusOK, todos)
}

// UpdateTodo handles PUT /api/todos/:id
// Responds with null when no todo has the id.
func (h *Handlers) UpdateTodo(c *gin.Context) {
	id := c.Param("id")

	// An empty body changes nothing and still answers with the record
	var body models.UpdateTodoInput
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		RespondBadRequest(c, MsgInvalidBody)
		return
	}

	todo, err := h.store.Update(c.Request.Context(), id, body)
	if err != nil {
		todosLogger.Error().Err(err).Str("id", id).Msg("failed to update todo")
		RespondInternalError(c, MsgUpdateFailed)
		return
	}

	c.JSON(http.StatusOK, todo)
}

// DeleteTodo handles DELETE /api/todos/:id
func (h *Handlers) DeleteTodo(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		todosLogger.Error().Err(err).Str("id", id).Msg("failed to delete todo")
		RespondInternalError(c, MsgDeleteFailed)
		return
	}

	RespondMessage(c, http.StatusOK, MsgTodoDeleted)
}

// Health handles GET /api/health
func (h *Handlers) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		todosLogger.Warn().Err(err).Msg("store ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": MsgStoreUnhealthy})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
