package readiness

import (
	"errors"

	"github.com/google/uuid"
)

const (
	MaxTasks = 10
	MinTasks = 1
)

var (
	ErrTooManyTasks = errors.New("readiness: at most 10 tasks can be analyzed at once")
	ErrLastTask     = errors.New("readiness: at least one task must remain")
	ErrTaskNotFound = errors.New("readiness: task not found")
)

// Worksheet is the live task list owned by one user session.
type Worksheet struct {
	tasks []Task
	newID func() string
}

func NewWorksheet() *Worksheet {
	w := &Worksheet{newID: func() string { return uuid.NewString() }}
	w.tasks = []Task{{ID: w.newID()}}
	return w
}

// Add appends an empty task and returns it.
func (w *Worksheet) Add() (Task, error) {
	if len(w.tasks) >= MaxTasks {
		return Task{}, ErrTooManyTasks
	}
	t := Task{ID: w.newID()}
	w.tasks = append(w.tasks, t)
	return t, nil
}

func (w *Worksheet) Remove(id string) error {
	i := w.index(id)
	if i < 0 {
		return ErrTaskNotFound
	}
	if len(w.tasks) <= MinTasks {
		return ErrLastTask
	}
	w.tasks = append(w.tasks[:i], w.tasks[i+1:]...)
	return nil
}

// Update applies edit to the task and recomputes its score immediately.
// The task ID cannot be changed by edit.
func (w *Worksheet) Update(id string, edit func(*Task)) (Task, error) {
	i := w.index(id)
	if i < 0 {
		return Task{}, ErrTaskNotFound
	}
	t := w.tasks[i]
	edit(&t)
	t.ID = id
	w.tasks[i] = t.Rescore()
	return w.tasks[i], nil
}

// Tasks returns a copy of the live tasks in entry order.
func (w *Worksheet) Tasks() []Task {
	return append([]Task(nil), w.tasks...)
}

func (w *Worksheet) Len() int { return len(w.tasks) }

// CanAnalyze is the validity check that enables the analyze action.
func (w *Worksheet) CanAnalyze() bool {
	for _, t := range w.tasks {
		if t.Complete() {
			return true
		}
	}
	return false
}

func (w *Worksheet) Analyze() (Result, bool) {
	return Analyze(w.tasks)
}

func (w *Worksheet) index(id string) int {
	for i, t := range w.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
