// Package migration holds the named operational tasks run against the
// SquidGame deployments: proxy deployments, upgrades, role setup and the
// dated parameter revisions.
package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gosimple/slug"
)

var ErrUnknown = errors.New("unknown task")

type Task struct {
	Name        string
	Description string
	Run         func(ctx context.Context, r *Runner) error
}

var (
	mu    sync.RWMutex
	tasks = map[string]Task{}
)

// Register adds a task under the slug of its name. Registering the same name
// twice panics.
func Register(task Task) {
	mu.Lock()
	defer mu.Unlock()

	task.Name = slug.Make(task.Name)
	if _, ok := tasks[task.Name]; ok {
		panic(fmt.Sprintf("migration: task %s registered twice", task.Name))
	}
	tasks[task.Name] = task
}

func Get(name string) (Task, error) {
	mu.RLock()
	defer mu.RUnlock()

	task, ok := tasks[slug.Make(name)]
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return task, nil
}

// List returns the registered tasks ordered by name.
func List() []Task {
	mu.RLock()
	defer mu.RUnlock()

	list := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, task)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return list
}
