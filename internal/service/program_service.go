package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kafkaan/fit-coach-link/internal/builder"
	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/metrics"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrLibraryExerciseRequired = errors.New("library exercise id is required")

// DraftStore keeps builder snapshots between requests.
type DraftStore interface {
	Create(ctx context.Context, coachID primitive.ObjectID, snap builder.Snapshot) (string, error)
	Load(ctx context.Context, coachID primitive.ObjectID, id string) (builder.Snapshot, error)
	Save(ctx context.Context, coachID primitive.ObjectID, id string, snap builder.Snapshot) error
	Delete(ctx context.Context, coachID primitive.ObjectID, id string) error
}

// DraftView is a draft as returned to the editor.
type DraftView struct {
	ID                string         `json:"id"`
	Program           domain.Program `json:"program"`
	EstimatedDuration int            `json:"estimatedDuration"`
	CanUndo           bool           `json:"canUndo"`
	CanRedo           bool           `json:"canRedo"`
}

func newDraftView(id string, b *builder.Builder) *DraftView {
	return &DraftView{
		ID:                id,
		Program:           b.Draft(),
		EstimatedDuration: b.EstimatedDuration(),
		CanUndo:           b.CanUndo(),
		CanRedo:           b.CanRedo(),
	}
}

type ProgramService interface {
	// StartDraft opens a blank draft, or a draft of an existing program when
	// from is set.
	StartDraft(ctx context.Context, coachID primitive.ObjectID, from *primitive.ObjectID) (*DraftView, error)
	GetDraft(ctx context.Context, coachID primitive.ObjectID, draftID string) (*DraftView, error)
	Apply(ctx context.Context, coachID primitive.ObjectID, draftID string, op builder.Op) (*DraftView, error)
	// SaveDraft persists the draft and discards it. A rejected save keeps the
	// draft so it can be corrected and saved again.
	SaveDraft(ctx context.Context, coachID primitive.ObjectID, draftID string) (*domain.Program, error)
	DiscardDraft(ctx context.Context, coachID primitive.ObjectID, draftID string) error
}

type programService struct {
	programRepo      repository.ProgramRepository
	relationshipRepo repository.RelationshipRepository
	libraryRepo      repository.LibraryRepository
	drafts           DraftStore
	notifier         builder.Notifier
	metrics          *metrics.Manager
	builderOpts      []builder.Option
}

func NewProgramService(
	programRepo repository.ProgramRepository,
	relationshipRepo repository.RelationshipRepository,
	libraryRepo repository.LibraryRepository,
	drafts DraftStore,
	notifier builder.Notifier,
	m *metrics.Manager,
	opts ...builder.Option,
) ProgramService {
	return &programService{
		programRepo:      programRepo,
		relationshipRepo: relationshipRepo,
		libraryRepo:      libraryRepo,
		drafts:           drafts,
		notifier:         notifier,
		metrics:          m,
		builderOpts:      opts,
	}
}

func (s *programService) StartDraft(ctx context.Context, coachID primitive.ObjectID, from *primitive.ObjectID) (*DraftView, error) {
	program := domain.NewProgram(coachID)
	if from != nil {
		existing, err := ownedProgram(ctx, s.programRepo, coachID, *from)
		if err != nil {
			return nil, err
		}
		program = *existing
	}

	b := builder.New(program, s.builderOpts...)
	id, err := s.drafts.Create(ctx, coachID, b.Snapshot())
	if err != nil {
		return nil, err
	}
	return newDraftView(id, b), nil
}

func (s *programService) load(ctx context.Context, coachID primitive.ObjectID, draftID string) (*builder.Builder, error) {
	snap, err := s.drafts.Load(ctx, coachID, draftID)
	if err != nil {
		return nil, err
	}
	return builder.Restore(snap, s.builderOpts...), nil
}

func (s *programService) GetDraft(ctx context.Context, coachID primitive.ObjectID, draftID string) (*DraftView, error) {
	b, err := s.load(ctx, coachID, draftID)
	if err != nil {
		return nil, err
	}
	return newDraftView(draftID, b), nil
}

// Apply runs one edit against the stored draft. A rejected edit leaves the
// stored draft untouched.
func (s *programService) Apply(ctx context.Context, coachID primitive.ObjectID, draftID string, op builder.Op) (*DraftView, error) {
	b, err := s.load(ctx, coachID, draftID)
	if err != nil {
		return nil, err
	}

	if op.Kind == builder.OpAddLibrary {
		lib, err := s.libraryExercise(ctx, coachID, op.LibraryID)
		if err != nil {
			return nil, err
		}
		op.Library = lib
	}

	if err := b.Apply(op); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, coachID, draftID, b.Snapshot()); err != nil {
		return nil, err
	}
	return newDraftView(draftID, b), nil
}

func (s *programService) libraryExercise(ctx context.Context, coachID primitive.ObjectID, hex string) (*domain.LibraryExercise, error) {
	if hex == "" {
		return nil, ErrLibraryExerciseRequired
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, &domain.ValidationError{Field: "libraryExerciseId", Reason: "is not a valid id"}
	}
	lib, err := s.libraryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if lib.CoachID != coachID {
		return nil, ErrExerciseAccessDenied
	}
	return lib, nil
}

// SaveDraft reports every failure through the notifier, including a draft
// that could not be loaded.
func (s *programService) SaveDraft(ctx context.Context, coachID primitive.ObjectID, draftID string) (*domain.Program, error) {
	b, err := s.load(ctx, coachID, draftID)
	if err != nil {
		s.notifier.NotifyError(ctx, "save draft", err)
		return nil, err
	}

	saved, err := b.Save(ctx, &programSaver{service: s, coachID: coachID}, s.notifier)
	if err != nil {
		return nil, err
	}
	s.metrics.CounterProgramsSaved.Inc()

	if err := s.drafts.Delete(ctx, coachID, draftID); err != nil {
		log.WithField("draft_id", draftID).WithError(err).Warn("failed to discard saved draft")
	}
	return &saved, nil
}

func (s *programService) DiscardDraft(ctx context.Context, coachID primitive.ObjectID, draftID string) error {
	return s.drafts.Delete(ctx, coachID, draftID)
}

// programSaver writes a finished draft: new programs are created, existing
// ones replaced. Only the owning coach can save, and only to linked athletes.
type programSaver struct {
	service *programService
	coachID primitive.ObjectID
}

func (ps *programSaver) SaveProgram(ctx context.Context, p domain.Program) (domain.Program, error) {
	s := ps.service
	if p.CoachID != ps.coachID {
		return domain.Program{}, ErrProgramAccessDenied
	}
	if p.AthleteID != nil {
		linked, err := s.relationshipRepo.IsLinked(ctx, ps.coachID, *p.AthleteID)
		if err != nil {
			return domain.Program{}, err
		}
		if !linked {
			return domain.Program{}, ErrAthleteNotLinked
		}
	}

	if p.ID.IsZero() {
		if _, err := s.programRepo.Create(ctx, &p); err != nil {
			return domain.Program{}, fmt.Errorf("creating program: %w", err)
		}
		return p, nil
	}

	if err := s.programRepo.Update(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Program{}, ErrProgramNotFound
		}
		return domain.Program{}, fmt.Errorf("updating program: %w", err)
	}
	return p, nil
}
