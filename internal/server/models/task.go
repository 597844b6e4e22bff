package models

import "time"

// Task belongs to exactly one user. Priority is an ordering hint assigned
// on creation; duplicates are tolerated under concurrent creates.
type Task struct {
	ID          int64
	Title       string
	Description string
	Priority    int
	IsCompleted bool
	OwnerID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch is a partial update: nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *int
	IsCompleted *bool
}

// TaskFilter narrows task listings. Nil fields match everything.
type TaskFilter struct {
	IsCompleted *bool
	Priority    *int
}
