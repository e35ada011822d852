package view

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Action is the handler behind a control.
type Action interface {
	Invoke(ctx context.Context) error
}

// ActionFunc adapts a function to Action.
type ActionFunc func(ctx context.Context) error

// Invoke calls f.
func (f ActionFunc) Invoke(ctx context.Context) error { return f(ctx) }

// ErrUnknownAction is returned when dispatching a key nothing is registered under.
var ErrUnknownAction = fmt.Errorf("unknown action")

// GlobalScope holds actions that survive re-renders and logout.
const GlobalScope = ""

// Actions maps control keys to handlers. Keys are grouped by scope, usually the id of the
// list region that rendered them, so a re-render swaps its item handlers wholesale.
type Actions struct {
	mu     sync.RWMutex
	scopes map[string]map[string]Action
}

// NewActions returns an empty registry.
func NewActions() *Actions {
	return &Actions{scopes: make(map[string]map[string]Action)}
}

// Register adds a single handler.
func (a *Actions) Register(scope, key string, action Action) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scopes[scope] == nil {
		a.scopes[scope] = make(map[string]Action)
	}
	a.scopes[scope][key] = action
}

// ReplaceScope drops everything registered under scope and installs actions.
func (a *Actions) ReplaceScope(scope string, actions map[string]Action) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(actions) == 0 {
		delete(a.scopes, scope)
		return
	}
	fresh := make(map[string]Action, len(actions))
	for k, v := range actions {
		fresh[k] = v
	}
	a.scopes[scope] = fresh
}

// ResetScoped drops every non-global scope.
func (a *Actions) ResetScoped() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for scope := range a.scopes {
		if scope != GlobalScope {
			delete(a.scopes, scope)
		}
	}
}

// Lookup finds the handler for key.
func (a *Actions) Lookup(key string) (Action, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, actions := range a.scopes {
		if action, ok := actions[key]; ok {
			return action, true
		}
	}
	return nil, false
}

// Dispatch invokes the handler for key.
func (a *Actions) Dispatch(ctx context.Context, key string) error {
	action, ok := a.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, key)
	}
	return action.Invoke(ctx)
}

// Keys lists every registered key in sorted order.
func (a *Actions) Keys() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	keys := make([]string, 0)
	for _, actions := range a.scopes {
		for key := range actions {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
