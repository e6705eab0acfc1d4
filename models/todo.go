package models

import "strings"

// Todo is a single task record. ID is assigned by the store on creation and
// never changes afterwards.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"` // Unix ms
	UpdatedAt int64  `json:"updatedAt"` // Unix ms
}

// CreateTodoInput is the body accepted when creating a task
type CreateTodoInput struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed,omitempty"`
}

// UpdateTodoInput holds the fields to merge into an existing task.
// Nil fields are left unchanged.
type UpdateTodoInput struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// NormalizedTitle returns the trimmed title, or "" when none was given
func (in CreateTodoInput) NormalizedTitle() string {
	if in.Title == nil {
		return ""
	}
	return strings.TrimSpace(*in.Title)
}

// IsCompleted reports the requested completed flag, defaulting to false
func (in CreateTodoInput) IsCompleted() bool {
	return in.Completed != nil && *in.Completed
}

// Apply merges the update into t. An empty title is ignored so a record never
// loses its title. Returns true if anything changed.
func (in UpdateTodoInput) Apply(t *Todo) bool {
	changed := false
	if in.Title != nil {
		if title := strings.TrimSpace(*in.Title); title != "" && title != t.Title {
			t.Title = title
			changed = true
		}
	}
	if in.Completed != nil && *in.Completed != t.Completed {
		t.Completed = *in.Completed
		changed = true
	}
	return changed
}

// HasTitle reports whether the update carries a usable title
func (in UpdateTodoInput) HasTitle() bool {
	return in.NormalizedTitle() != ""
}

// NormalizedTitle returns the trimmed title, or "" when none was given
func (in UpdateTodoInput) NormalizedTitle() string {
	if in.Title == nil {
		return ""
	}
	return strings.TrimSpace(*in.Title)
}
