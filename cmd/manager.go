package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

var ErrCommandNotFound = errors.New("command not found")

// Manager handles command registration, parsing, and execution
type Manager struct {
	mu   sync.RWMutex
	api  API
	cmds map[string]Command
}

func NewManager(api API) *Manager {
	return &Manager{
		api:  api,
		cmds: make(map[string]Command),
	}
}

// Register registers a custom command
func (cm *Manager) Register(cmds ...Command) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for _, cmd := range cmds {
		if cmd == nil {
			return fmt.Errorf("command cannot be nil")
		}

		name := cmd.Name()
		if name == "" {
			return fmt.Errorf("command name cannot be empty")
		}
		if _, exists := cm.cmds[name]; exists {
			return fmt.Errorf("command already registered: %s", name)
		}

		cm.cmds[name] = cmd
	}

	return nil
}

// Unregister removes a registered command
func (cm *Manager) Unregister(name string) (bool, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.cmds[name]; !exists {
		return false, fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}

	delete(cm.cmds, name)
	return true, nil
}

// Get returns a command by name
func (cm *Manager) Get(name string) (Command, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	cmd, exists := cm.cmds[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}

	return cmd, nil
}

// List returns all registered commands ordered by name
func (cm *Manager) List() []Command {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	commands := make([]Command, 0, len(cm.cmds))
	for _, cmd := range cm.cmds {
		commands = append(commands, cmd)
	}

	slices.SortFunc(commands, func(a, b Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return commands
}

// Execute parses and executes a command, writing its output to writer
func (cm *Manager) Execute(ctx context.Context, writer io.Writer, args ...string) (int, error) {
	if len(args) == 0 {
		return 1, fmt.Errorf("no command specified")
	}

	cmd, err := cm.Get(args[0])
	if err != nil {
		return 1, err
	}

	parsedArgs, err := NewParser(cmd.GetFlags()).Parse(args[1:])
	if err != nil {
		return 2, fmt.Errorf("parse error: %w", err)
	}

	return cmd.Execute(ctx, cm.api, parsedArgs, writer)
}
