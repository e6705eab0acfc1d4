package api

import "github.com/xiaoyuanzhu-com/todo-app/db"

// Handlers holds references to the components the API delegates to
type Handlers struct {
	store db.Store
}

// NewHandlers creates a new Handlers instance backed by store
func NewHandlers(store db.Store) *Handlers {
	return &Handlers{store: store}
}
