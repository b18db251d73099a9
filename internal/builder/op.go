package builder

import (
	"errors"
	"fmt"

	"github.com/kafkaan/fit-coach-link/internal/domain"
)

// OpKind names a structural edit submitted over the API.
type OpKind string

const (
	OpAddBlock       OpKind = "add_block"
	OpUpdateBlock    OpKind = "update_block"
	OpDeleteBlock    OpKind = "delete_block"
	OpReorderBlocks  OpKind = "reorder_blocks"
	OpAddExercise    OpKind = "add_exercise"
	OpAddLibrary     OpKind = "add_library_exercise"
	OpUpdateExercise OpKind = "update_exercise"
	OpDeleteExercise OpKind = "delete_exercise"
	OpAddSet         OpKind = "add_set"
	OpUpdateSet      OpKind = "update_set"
	OpDeleteSet      OpKind = "delete_set"
	OpUpdateDetails  OpKind = "update_details"
	OpAddListItem    OpKind = "add_item"
	OpRemoveListItem OpKind = "remove_item"
	OpUndo           OpKind = "undo"
	OpRedo           OpKind = "redo"
)

var ErrUnknownOp = errors.New("unknown builder operation")

// Op is one edit. Only the fields the kind needs are read.
type Op struct {
	Kind        OpKind                `json:"op" binding:"required"`
	BlockID     string                `json:"blockId,omitempty"`
	ExerciseID  string                `json:"exerciseId,omitempty"`
	SetID       string                `json:"setId,omitempty"`
	BlockType   domain.BlockType      `json:"blockType,omitempty"`
	Source      int                   `json:"source"`
	Destination int                   `json:"destination"`
	List        domain.ListField      `json:"list,omitempty"`
	Item        string                `json:"item,omitempty"`
	LibraryID   string                `json:"libraryExerciseId,omitempty"`
	Block       *domain.BlockPatch    `json:"block,omitempty"`
	Exercise    *domain.ExercisePatch `json:"exercise,omitempty"`
	Set         *domain.SetPatch      `json:"set,omitempty"`
	Details     *domain.ProgramPatch  `json:"details,omitempty"`

	// Library is resolved by the caller from LibraryID before Apply.
	Library *domain.LibraryExercise `json:"-"`
}

// Apply dispatches op to the matching edit method.
func (b *Builder) Apply(op Op) error {
	switch op.Kind {
	case OpAddBlock:
		_, err := b.AddBlock(op.BlockType)
		return err
	case OpUpdateBlock:
		return b.UpdateBlock(op.BlockID, derefOr(op.Block))
	case OpDeleteBlock:
		return b.DeleteBlock(op.BlockID)
	case OpReorderBlocks:
		return b.ReorderBlocks(op.Source, op.Destination)
	case OpAddExercise:
		_, err := b.AddExerciseToBlock(op.BlockID)
		return err
	case OpAddLibrary:
		if op.Library == nil {
			return &domain.ValidationError{Field: "libraryExerciseId", Reason: "is required"}
		}
		_, err := b.AddLibraryExercise(op.BlockID, *op.Library)
		return err
	case OpUpdateExercise:
		return b.UpdateExercise(op.BlockID, op.ExerciseID, derefOr(op.Exercise))
	case OpDeleteExercise:
		return b.DeleteExercise(op.BlockID, op.ExerciseID)
	case OpAddSet:
		_, err := b.AddSetToExercise(op.BlockID, op.ExerciseID)
		return err
	case OpUpdateSet:
		return b.UpdateSet(op.BlockID, op.ExerciseID, op.SetID, derefOr(op.Set))
	case OpDeleteSet:
		return b.DeleteSet(op.BlockID, op.ExerciseID, op.SetID)
	case OpUpdateDetails:
		return b.UpdateDetails(derefOr(op.Details))
	case OpAddListItem:
		return b.addItem(op.List, op.Item)
	case OpRemoveListItem:
		return b.removeItem(op.List, op.Item)
	case OpUndo:
		return b.Undo()
	case OpRedo:
		return b.Redo()
	}
	return fmt.Errorf("%w: %q", ErrUnknownOp, op.Kind)
}

func derefOr[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
