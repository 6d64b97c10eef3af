// Package command implements the undo/redo layer every user-visible graph
// mutation must go through: a Command interface, a CommandHistory with
// undo/redo stacks and a HistoryChanged signal, a CompoundCommand with
// rollback-on-failure, and the built-in commands wrapping each
// graph.Graph mutation. Mirrors the teacher's single-orchestrator
// composition shape (apply-in-order-then-wrap-on-error), generalized to
// roll back instead of merely aborting, since commands must be undoable.
package command

import (
	"errors"
	"fmt"

	"github.com/arborist-editor/nodegraph/graph"
	"github.com/rs/zerolog"
)

// ErrNothingToUndo / ErrNothingToRedo indicate an empty stack.
var (
	ErrNothingToUndo = errors.New("command: nothing to undo")
	ErrNothingToRedo = errors.New("command: nothing to redo")
)

// Command is a reversible graph mutation.
type Command interface {
	Description() string
	Execute(g *graph.Graph) error
	Undo(g *graph.Graph) error
}

// HistoryChangedEvent carries no payload beyond notification; listeners
// re-query CommandHistory.CanUndo/CanRedo as needed.
type HistoryChangedEvent struct{}

// Unsubscribe, returned by OnHistoryChanged, detaches that listener.
type Unsubscribe func()

// CommandHistory runs commands against a single graph.Graph, maintaining
// undo/redo stacks. It is unsynchronized: single-owner-thread usage,
// consistent with graph.Graph's own command-layer contract.
type CommandHistory struct {
	g    *graph.Graph
	log  zerolog.Logger
	undo []Command
	redo []Command

	listeners []func(HistoryChangedEvent)
}

// HistoryOption configures a CommandHistory at construction time.
type HistoryOption func(*CommandHistory)

// WithLogger attaches a structured logger; the zero value disables logging.
func WithLogger(l zerolog.Logger) HistoryOption {
	return func(h *CommandHistory) { h.log = l }
}

// NewCommandHistory returns a CommandHistory that executes commands
// against g.
func NewCommandHistory(g *graph.Graph, opts ...HistoryOption) *CommandHistory {
	h := &CommandHistory{g: g}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// OnHistoryChanged registers a listener invoked, in registration order,
// after every Execute/Undo/Redo that mutates the stacks.
func (h *CommandHistory) OnHistoryChanged(fn func(HistoryChangedEvent)) Unsubscribe {
	h.listeners = append(h.listeners, fn)
	idx := len(h.listeners) - 1

	return func() { h.listeners[idx] = nil }
}

func (h *CommandHistory) emitChanged() {
	for _, fn := range h.listeners {
		if fn != nil {
			fn(HistoryChangedEvent{})
		}
	}
}

// CanUndo reports whether Undo would pop a command.
func (h *CommandHistory) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would pop a command.
func (h *CommandHistory) CanRedo() bool { return len(h.redo) > 0 }

// Execute runs cmd.Execute, and on success pushes cmd onto the undo stack
// and clears the redo stack. On failure the history is left unchanged and
// the error is returned wrapped with the command's description.
func (h *CommandHistory) Execute(cmd Command) error {
	if err := cmd.Execute(h.g); err != nil {
		return fmt.Errorf("command: execute %q: %w", cmd.Description(), err)
	}
	h.undo = append(h.undo, cmd)
	h.redo = nil
	h.log.Info().Str("command", cmd.Description()).Msg("executed")
	h.emitChanged()

	return nil
}

// Undo pops the most recent undo-stack command, runs its Undo, and pushes
// it onto the redo stack. Returns ErrNothingToUndo if the stack is empty.
func (h *CommandHistory) Undo() error {
	if len(h.undo) == 0 {
		return ErrNothingToUndo
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	if err := cmd.Undo(h.g); err != nil {
		return fmt.Errorf("command: undo %q: %w", cmd.Description(), err)
	}
	h.redo = append(h.redo, cmd)
	h.log.Info().Str("command", cmd.Description()).Msg("undone")
	h.emitChanged()

	return nil
}

// Redo pops the most recent redo-stack command, runs its Execute, and
// pushes it back onto the undo stack. Returns ErrNothingToRedo if the
// stack is empty.
func (h *CommandHistory) Redo() error {
	if len(h.redo) == 0 {
		return ErrNothingToRedo
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	if err := cmd.Execute(h.g); err != nil {
		return fmt.Errorf("command: redo %q: %w", cmd.Description(), err)
	}
	h.undo = append(h.undo, cmd)
	h.log.Info().Str("command", cmd.Description()).Msg("redone")
	h.emitChanged()

	return nil
}

// CompoundCommand groups children under a single description. Execute
// applies children in order; if any child fails, every already-executed
// child is undone in reverse before the error is surfaced, so a
// CompoundCommand never leaves a partial mutation behind. Undo replays
// children's Undo in reverse order.
type CompoundCommand struct {
	Desc     string
	Children []Command
}

// Description implements Command.
func (c *CompoundCommand) Description() string { return c.Desc }

// Execute implements Command, rolling back already-executed children on
// any failure.
func (c *CompoundCommand) Execute(g *graph.Graph) error {
	for i, child := range c.Children {
		if err := child.Execute(g); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Children[j].Undo(g)
			}
			return fmt.Errorf("command: compound %q: child %d (%q): %w", c.Desc, i, child.Description(), err)
		}
	}

	return nil
}

// Undo implements Command, replaying children's Undo in reverse order.
func (c *CompoundCommand) Undo(g *graph.Graph) error {
	for i := len(c.Children) - 1; i >= 0; i-- {
		if err := c.Children[i].Undo(g); err != nil {
			return fmt.Errorf("command: compound %q: undo child %d (%q): %w", c.Desc, i, c.Children[i].Description(), err)
		}
	}

	return nil
}
