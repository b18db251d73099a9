package builder

import (
	"fmt"

	"github.com/kafkaan/fit-coach-link/internal/domain"
)

// AddBlock appends a block of type t (strength when empty) with the default
// duration, rest and intensity.
func (b *Builder) AddBlock(t domain.BlockType) (domain.Block, error) {
	if t == "" {
		t = domain.BlockStrength
	}
	if !t.Valid() {
		return domain.Block{}, &domain.ValidationError{Field: "block.type", Reason: fmt.Sprintf("unknown block type %q", t)}
	}
	var added domain.Block
	err := b.edit(func(p domain.Program) (domain.Program, error) {
		block := domain.NewBlock(b.newID(), fmt.Sprintf("Block %d", len(p.Blocks)+1), t)
		next := p.WithBlock(block)
		added = next.Blocks[len(next.Blocks)-1]
		return next, nil
	})
	return added, err
}

func (b *Builder) UpdateBlock(blockID string, patch domain.BlockPatch) error {
	return b.editBlock(blockID, func(blk domain.Block) (domain.Block, error) {
		return blk.WithPatch(patch)
	})
}

// DeleteBlock removes the block and renumbers the remaining ones.
func (b *Builder) DeleteBlock(blockID string) error {
	return b.edit(func(p domain.Program) (domain.Program, error) {
		next, found := p.WithoutBlock(blockID)
		if !found {
			return p, ErrBlockNotFound
		}
		return next, nil
	})
}

// ReorderBlocks moves the block at src to dst. Indexes are 0-based positions.
func (b *Builder) ReorderBlocks(src, dst int) error {
	return b.edit(func(p domain.Program) (domain.Program, error) {
		next, ok := p.WithBlocksReordered(src, dst)
		if !ok {
			return p, fmt.Errorf("%w: %d -> %d of %d", ErrIndexOutOfRange, src, dst, len(p.Blocks))
		}
		return next, nil
	})
}

// AddExerciseToBlock appends a default exercise carrying one default set.
func (b *Builder) AddExerciseToBlock(blockID string) (domain.Exercise, error) {
	return b.addExercise(blockID, domain.NewExercise(b.newID(), domain.NewSet(b.newID())))
}

// AddLibraryExercise copies a library entry into the block.
func (b *Builder) AddLibraryExercise(blockID string, lib domain.LibraryExercise) (domain.Exercise, error) {
	return b.addExercise(blockID, lib.ToExercise(b.newID(), b.newID()))
}

func (b *Builder) addExercise(blockID string, ex domain.Exercise) (domain.Exercise, error) {
	err := b.editBlock(blockID, func(blk domain.Block) (domain.Block, error) {
		return blk.WithExercise(ex), nil
	})
	if err != nil {
		return domain.Exercise{}, err
	}
	return ex, nil
}

func (b *Builder) UpdateExercise(blockID, exerciseID string, patch domain.ExercisePatch) error {
	return b.editExercise(blockID, exerciseID, func(ex domain.Exercise) (domain.Exercise, error) {
		return ex.WithPatch(patch)
	})
}

func (b *Builder) DeleteExercise(blockID, exerciseID string) error {
	return b.editBlock(blockID, func(blk domain.Block) (domain.Block, error) {
		next, found := blk.WithoutExercise(exerciseID)
		if !found {
			return blk, ErrExerciseNotFound
		}
		return next, nil
	})
}

// AddSetToExercise appends a default set to the exercise.
func (b *Builder) AddSetToExercise(blockID, exerciseID string) (domain.Set, error) {
	set := domain.NewSet(b.newID())
	err := b.editExercise(blockID, exerciseID, func(ex domain.Exercise) (domain.Exercise, error) {
		return ex.WithSet(set), nil
	})
	if err != nil {
		return domain.Set{}, err
	}
	return set, nil
}

func (b *Builder) UpdateSet(blockID, exerciseID, setID string, patch domain.SetPatch) error {
	return b.editExercise(blockID, exerciseID, func(ex domain.Exercise) (domain.Exercise, error) {
		next, found, err := ex.MapSet(setID, func(s domain.Set) (domain.Set, error) {
			return s.WithPatch(patch)
		})
		if !found {
			return ex, ErrSetNotFound
		}
		return next, err
	})
}

func (b *Builder) DeleteSet(blockID, exerciseID, setID string) error {
	return b.editExercise(blockID, exerciseID, func(ex domain.Exercise) (domain.Exercise, error) {
		next, found := ex.WithoutSet(setID)
		if !found {
			return ex, ErrSetNotFound
		}
		return next, nil
	})
}

// UpdateDetails merges top-level program fields.
func (b *Builder) UpdateDetails(patch domain.ProgramPatch) error {
	return b.edit(func(p domain.Program) (domain.Program, error) {
		return p.WithPatch(patch)
	})
}

func (b *Builder) AddObjective(v string) error    { return b.addItem(domain.ListObjectives, v) }
func (b *Builder) RemoveObjective(v string) error { return b.removeItem(domain.ListObjectives, v) }
func (b *Builder) AddEquipment(v string) error    { return b.addItem(domain.ListEquipment, v) }
func (b *Builder) RemoveEquipment(v string) error { return b.removeItem(domain.ListEquipment, v) }
func (b *Builder) AddTag(v string) error          { return b.addItem(domain.ListTags, v) }
func (b *Builder) RemoveTag(v string) error       { return b.removeItem(domain.ListTags, v) }

func (b *Builder) addItem(field domain.ListField, v string) error {
	return b.edit(func(p domain.Program) (domain.Program, error) {
		return unchangedUnless(p.WithListItem(field, v))
	})
}

func (b *Builder) removeItem(field domain.ListField, v string) error {
	return b.edit(func(p domain.Program) (domain.Program, error) {
		return unchangedUnless(p.WithoutListItem(field, v))
	})
}

// unchangedUnless turns a list edit that changed nothing into errUnchanged
// so no history entry is recorded for it.
func unchangedUnless(p domain.Program, changed bool, err error) (domain.Program, error) {
	if err != nil {
		return p, err
	}
	if !changed {
		return p, errUnchanged
	}
	return p, nil
}

func (b *Builder) editBlock(blockID string, fn func(domain.Block) (domain.Block, error)) error {
	return b.edit(func(p domain.Program) (domain.Program, error) {
		next, found, err := p.MapBlock(blockID, fn)
		if !found {
			return p, ErrBlockNotFound
		}
		return next, err
	})
}

func (b *Builder) editExercise(blockID, exerciseID string, fn func(domain.Exercise) (domain.Exercise, error)) error {
	return b.editBlock(blockID, func(blk domain.Block) (domain.Block, error) {
		next, found, err := blk.MapExercise(exerciseID, fn)
		if !found {
			return blk, ErrExerciseNotFound
		}
		return next, err
	})
}
