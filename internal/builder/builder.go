// Package builder edits a single program draft. Every edit swaps the draft
// for the new value returned by the domain edit API, so undo and redo are
// plain stacks of previous values.
package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kafkaan/fit-coach-link/internal/domain"
)

// HistoryLimit caps the undo stack.
const HistoryLimit = 50

var (
	ErrBlockNotFound    = errors.New("block not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSetNotFound      = errors.New("set not found")
	ErrIndexOutOfRange  = errors.New("block index out of range")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrNothingToRedo    = errors.New("nothing to redo")
	ErrClosed           = errors.New("builder is closed")

	errUnchanged = errors.New("edit changed nothing")
)

// Saver persists a finished draft and returns it with its durable identity
// and timestamps.
type Saver interface {
	SaveProgram(ctx context.Context, p domain.Program) (domain.Program, error)
}

// Notifier surfaces a failed action to the user.
type Notifier interface {
	NotifyError(ctx context.Context, action string, err error)
}

// Builder is not safe for concurrent use. Callers serialize access per draft.
type Builder struct {
	draft  domain.Program
	undo   []domain.Program
	redo   []domain.Program
	closed bool
	newID  func() string
}

type Option func(*Builder)

// WithIDGenerator overrides the identity generator used for new blocks,
// exercises and sets.
func WithIDGenerator(fn func() string) Option {
	return func(b *Builder) { b.newID = fn }
}

// New starts editing p.
func New(p domain.Program, opts ...Option) *Builder {
	b := &Builder{draft: p, newID: uuid.NewString}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Draft returns a copy of the current draft. Changing it does not affect
// the builder.
func (b *Builder) Draft() domain.Program { return b.draft.Clone() }

func (b *Builder) Closed() bool { return b.closed }

func (b *Builder) CanUndo() bool { return len(b.undo) > 0 }

func (b *Builder) CanRedo() bool { return len(b.redo) > 0 }

// EstimatedDuration is recomputed from the current draft on every call.
func (b *Builder) EstimatedDuration() int { return b.draft.EstimatedDuration() }

func (b *Builder) commit(next domain.Program) {
	b.undo = append(b.undo, b.draft)
	if len(b.undo) > HistoryLimit {
		b.undo = b.undo[len(b.undo)-HistoryLimit:]
	}
	b.redo = nil
	b.draft = next
}

func (b *Builder) edit(fn func(domain.Program) (domain.Program, error)) error {
	if b.closed {
		return ErrClosed
	}
	next, err := fn(b.draft)
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	b.commit(next)
	return nil
}

func (b *Builder) Undo() error {
	if b.closed {
		return ErrClosed
	}
	if len(b.undo) == 0 {
		return ErrNothingToUndo
	}
	prev := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.redo = append(b.redo, b.draft)
	b.draft = prev
	return nil
}

func (b *Builder) Redo() error {
	if b.closed {
		return ErrClosed
	}
	if len(b.redo) == 0 {
		return ErrNothingToRedo
	}
	next := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.undo = append(b.undo, b.draft)
	b.draft = next
	return nil
}

// Save validates the draft, bumps its version and hands it to s. On failure
// the error is reported through n and the draft is left as it was so the
// caller can correct it and retry. On success the builder closes.
func (b *Builder) Save(ctx context.Context, s Saver, n Notifier) (domain.Program, error) {
	if b.closed {
		return domain.Program{}, ErrClosed
	}
	candidate := b.draft
	if err := candidate.Validate(); err != nil {
		n.NotifyError(ctx, "save program", err)
		return domain.Program{}, err
	}
	candidate.Version++

	saved, err := s.SaveProgram(ctx, candidate)
	if err != nil {
		n.NotifyError(ctx, "save program", err)
		return domain.Program{}, fmt.Errorf("saving program: %w", err)
	}
	b.draft = saved
	b.undo = nil
	b.redo = nil
	b.closed = true
	return saved, nil
}

// Snapshot is the serializable state of a builder.
type Snapshot struct {
	Draft  domain.Program   `json:"draft"`
	Undo   []domain.Program `json:"undo,omitempty"`
	Redo   []domain.Program `json:"redo,omitempty"`
	Closed bool             `json:"closed,omitempty"`
}

func (b *Builder) Snapshot() Snapshot {
	return Snapshot{Draft: b.draft, Undo: b.undo, Redo: b.redo, Closed: b.closed}
}

// Restore rebuilds a builder from a snapshot.
func Restore(s Snapshot, opts ...Option) *Builder {
	b := New(s.Draft, opts...)
	b.undo = s.Undo
	b.redo = s.Redo
	b.closed = s.Closed
	return b
}
