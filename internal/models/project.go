package models

import "time"

// Task status values.
const (
	StatusDone       = "Completado"
	StatusInProgress = "En progreso"
	StatusPending    = "Pendiente"
)

// Task priority values.
const (
	PriorityHigh   = "Alta"
	PriorityMedium = "Media"
	PriorityLow    = "Baja"
)

type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	Tasks       []Task    `json:"tasks"`
}

// Task belongs to exactly one Project and is stored inside it.
type Task struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	Owner     string    `json:"owner"`
	Desc      string    `json:"desc"`
	CreatedAt time.Time `json:"createdAt"`
}
