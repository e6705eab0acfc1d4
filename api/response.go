package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message bodies returned to clients
const (
	MsgCreateFailed   = "Error creating todo"
	MsgInvalidBody    = "Invalid request body"
	MsgListFailed     = "Error fetching todos"
	MsgUpdateFailed   = "Error updating todo"
	MsgDeleteFailed   = "Error deleting todo"
	MsgTodoDeleted    = "Todo deleted"
	MsgStoreUnhealthy = "Store unavailable"
)

// MessageResponse is the body of every non-record response
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondMessage sends {"message": ...} with the given status
func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}

// RespondBadRequest sends a 400 with a short message
func RespondBadRequest(c *gin.Context, message string) {
	RespondMessage(c, http.StatusBadRequest, message)
}

// RespondInternalError sends a 500 with a short message
func RespondInternalError(c *gin.Context, message string) {
	RespondMessage(c, http.StatusInternalServerError, message)
}
