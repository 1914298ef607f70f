// Package taskflows ships the built-in Aurin task-manager processes: task
// creation, team workload and task archiving, backed by an in-memory board.
// Hosts with a real backend register their own tools and definitions instead.
package taskflows

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Client is a customer the team works for.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task is one unit of work on the board.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ClientID  string    `json:"client_id"`
	Assignee  string    `json:"assignee,omitempty"`
	Due       time.Time `json:"due,omitempty"`
	Archived  bool      `json:"archived,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Board is a concurrency-safe in-memory task board.
type Board struct {
	mu      sync.Mutex
	clients []Client
	tasks   map[string]*Task
	seq     int
}

// NewBoard creates a board pre-seeded with a couple of demo clients.
func NewBoard() *Board {
	return &Board{
		clients: []Client{
			{ID: "aurin", Name: "Aurin"},
			{ID: "acme", Name: "Acme Corp"},
			{ID: "norte", Name: "Estudio Norte"},
		},
		tasks: make(map[string]*Task),
	}
}

// FindClient resolves a free-text query to a client by id or name substring.
func (b *Board) FindClient(query string) (*Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("empty client query")
	}
	for i := range b.clients {
		c := &b.clients[i]
		if strings.EqualFold(c.ID, q) || strings.Contains(strings.ToLower(c.Name), q) {
			found := *c
			return &found, nil
		}
	}
	return nil, fmt.Errorf("no encontré ningún cliente para %q", query)
}

// CreateTask adds a task for a known client.
func (b *Board) CreateTask(title, clientID, assignee string, due time.Time) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("task title is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	task := &Task{
		ID:        fmt.Sprintf("task-%d", b.seq),
		Title:     strings.TrimSpace(title),
		ClientID:  clientID,
		Assignee:  assignee,
		Due:       due,
		CreatedAt: time.Now(),
	}
	b.tasks[task.ID] = task

	out := *task
	return &out, nil
}

// Task returns a task by id.
func (b *Board) Task(id string) (*Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tasks[id]
	if !ok {
		return nil, false
	}
	out := *t
	return &out, true
}

// Archive marks a task archived.
func (b *Board) Archive(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tasks[id]
	if !ok {
		return fmt.Errorf("no existe la tarea %q", id)
	}
	t.Archived = true
	return nil
}

// Workload counts open tasks per assignee.
func (b *Board) Workload() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()

	counts := make(map[string]int)
	for _, t := range b.tasks {
		if t.Archived {
			continue
		}
		who := t.Assignee
		if who == "" {
			who = "sin asignar"
		}
		counts[who]++
	}
	return counts
}
