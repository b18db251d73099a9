package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/kafkaan/fit-coach-link/internal/builder"
	"github.com/kafkaan/fit-coach-link/internal/domain"
	"github.com/kafkaan/fit-coach-link/internal/draft"
	"github.com/kafkaan/fit-coach-link/internal/repository"
	"github.com/kafkaan/fit-coach-link/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memDB backs every repository mock so joins (names, completion) can be
// answered the way the aggregations do.
type memDB struct {
	mu          sync.Mutex
	profiles    map[primitive.ObjectID]domain.Profile
	links       map[[2]primitive.ObjectID]time.Time
	programs    map[primitive.ObjectID]domain.Program
	sessions    map[primitive.ObjectID]domain.WorkoutSession
	assessments []domain.FitnessAssessment
	library     map[primitive.ObjectID]domain.LibraryExercise
	media       map[primitive.ObjectID]domain.MediaAsset
}

func newMemDB() *memDB {
	return &memDB{
		profiles: map[primitive.ObjectID]domain.Profile{},
		links:    map[[2]primitive.ObjectID]time.Time{},
		programs: map[primitive.ObjectID]domain.Program{},
		sessions: map[primitive.ObjectID]domain.WorkoutSession{},
		library:  map[primitive.ObjectID]domain.LibraryExercise{},
		media:    map[primitive.ObjectID]domain.MediaAsset{},
	}
}

func (db *memDB) addProfile(first, email string, role domain.Role) domain.Profile {
	p := domain.Profile{ID: primitive.NewObjectID(), FirstName: first, LastName: "Test", Email: email, Role: role, PasswordHash: "x"}
	db.mu.Lock()
	db.profiles[p.ID] = p
	db.mu.Unlock()
	return p
}

// --- profiles ---

type profileRepoMock struct{ db *memDB }

func (r profileRepoMock) Create(_ context.Context, p *domain.Profile) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.profiles {
		if existing.Email == domain.NormalizeEmail(p.Email) {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	p.ID = primitive.NewObjectID()
	p.Email = domain.NormalizeEmail(p.Email)
	r.db.profiles[p.ID] = *p
	return p.ID, nil
}

func (r profileRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r profileRepoMock) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.profiles {
		if p.Email == domain.NormalizeEmail(email) {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r profileRepoMock) UpdateTheme(_ context.Context, id primitive.ObjectID, theme *domain.Theme) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Theme = theme
	r.db.profiles[id] = p
	return nil
}

func (r profileRepoMock) Update(_ context.Context, p *domain.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.profiles[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.FirstName = p.FirstName
	existing.LastName = p.LastName
	existing.AvatarURL = p.AvatarURL
	existing.Theme = p.Theme
	r.db.profiles[p.ID] = existing
	return nil
}

// --- relationships ---

type relationshipRepoMock struct{ db *memDB }

func (r relationshipRepoMock) Link(_ context.Context, coachID, athleteID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	k := [2]primitive.ObjectID{coachID, athleteID}
	if _, ok := r.db.links[k]; ok {
		return repository.ErrConflict
	}
	r.db.links[k] = time.Now()
	return nil
}

func (r relationshipRepoMock) Unlink(_ context.Context, coachID, athleteID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	k := [2]primitive.ObjectID{coachID, athleteID}
	if _, ok := r.db.links[k]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.links, k)
	return nil
}

func (r relationshipRepoMock) ListAthletes(_ context.Context, coachID primitive.ObjectID) ([]domain.RosterEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var roster []domain.RosterEntry
	for k, at := range r.db.links {
		if k[0] != coachID {
			continue
		}
		p := r.db.profiles[k[1]]
		roster = append(roster, domain.RosterEntry{AthleteID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Email: p.Email, LinkedAt: at})
	}
	return roster, nil
}

func (r relationshipRepoMock) IsLinked(_ context.Context, coachID, athleteID primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.links[[2]primitive.ObjectID{coachID, athleteID}]
	return ok, nil
}

func (r relationshipRepoMock) CountAthletes(ctx context.Context, coachID primitive.ObjectID) (int, error) {
	roster, err := r.ListAthletes(ctx, coachID)
	return len(roster), err
}

// --- programs ---

type programRepoMock struct{ db *memDB }

func (r programRepoMock) Create(_ context.Context, p *domain.Program) (primitive.ObjectID, error) {
	if p.Title == "" {
		return primitive.NilObjectID, errors.New("program requires coachId and title")
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	r.db.programs[p.ID] = *p
	return p.ID, nil
}

func (r programRepoMock) Update(_ context.Context, p *domain.Program) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.programs[p.ID]
	if !ok || existing.CoachID != p.CoachID {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	r.db.programs[p.ID] = *p
	return nil
}

func (r programRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Program, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r programRepoMock) list(match func(domain.Program) bool) []domain.ProgramListing {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.ProgramListing
	for _, p := range r.db.programs {
		if !match(p) {
			continue
		}
		l := domain.ProgramListing{Program: p}
		coach := r.db.profiles[p.CoachID]
		l.CoachName = coach.FullName()
		if p.AthleteID != nil {
			athlete := r.db.profiles[*p.AthleteID]
			l.AthleteName = athlete.FullName()
			for _, s := range r.db.sessions {
				if s.ProgramID == p.ID && s.AthleteID == *p.AthleteID && s.Completed {
					l.Completed = true
					l.CompletedAt = s.CompletedAt
				}
			}
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Program.CreatedAt.After(out[j].Program.CreatedAt) })
	return out
}

func (r programRepoMock) ListByCoach(_ context.Context, coachID primitive.ObjectID) ([]domain.ProgramListing, error) {
	return r.list(func(p domain.Program) bool { return p.CoachID == coachID }), nil
}

func (r programRepoMock) ListByAthlete(_ context.Context, athleteID primitive.ObjectID) ([]domain.ProgramListing, error) {
	return r.list(func(p domain.Program) bool { return p.AthleteID != nil && *p.AthleteID == athleteID }), nil
}

func (r programRepoMock) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.programs[id]
	if !ok || p.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.db.programs, id)
	return nil
}

// --- sessions ---

type sessionRepoMock struct{ db *memDB }

func (r sessionRepoMock) MarkComplete(_ context.Context, programID, athleteID primitive.ObjectID, at time.Time, notes string) (*domain.WorkoutSession, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	at = at.UTC()
	for id, s := range r.db.sessions {
		if s.ProgramID == programID && s.AthleteID == athleteID {
			s.Completed = true
			s.CompletedAt = &at
			s.UpdatedAt = at
			if notes != "" {
				s.Notes = notes
			}
			r.db.sessions[id] = s
			return &s, false, nil
		}
	}
	s := domain.WorkoutSession{
		ID: primitive.NewObjectID(), ProgramID: programID, AthleteID: athleteID,
		Completed: true, CompletedAt: &at, Notes: notes, CreatedAt: at, UpdatedAt: at,
	}
	r.db.sessions[s.ID] = s
	return &s, true, nil
}

func (r sessionRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r sessionRepoMock) GetByProgramAndAthlete(_ context.Context, programID, athleteID primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.sessions {
		if s.ProgramID == programID && s.AthleteID == athleteID {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r sessionRepoMock) ListCompletedByAthlete(_ context.Context, athleteID primitive.ObjectID, limit int) ([]domain.CompletedSession, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.CompletedSession
	for _, s := range r.db.sessions {
		if s.AthleteID == athleteID && s.Completed {
			out = append(out, domain.CompletedSession{ID: s.ID, ProgramID: s.ProgramID, ProgramTitle: r.db.programs[s.ProgramID].Title, CompletedAt: s.CompletedAt})
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r sessionRepoMock) DeleteByProgram(_ context.Context, programID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, s := range r.db.sessions {
		if s.ProgramID == programID {
			delete(r.db.sessions, id)
		}
	}
	return nil
}

// --- assessments ---

type assessmentRepoMock struct{ db *memDB }

func (r assessmentRepoMock) Create(_ context.Context, a *domain.FitnessAssessment) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.ID = primitive.NewObjectID()
	r.db.assessments = append(r.db.assessments, *a)
	return a.ID, nil
}

func (r assessmentRepoMock) ListByAthlete(_ context.Context, athleteID primitive.ObjectID, limit int) ([]domain.FitnessAssessment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.FitnessAssessment
	for i := len(r.db.assessments) - 1; i >= 0 && len(out) < limit; i-- {
		if a := r.db.assessments[i]; a.AthleteID == athleteID {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- library ---

type libraryRepoMock struct{ db *memDB }

func (r libraryRepoMock) Create(_ context.Context, e *domain.LibraryExercise) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.library {
		if existing.CoachID == e.CoachID && existing.Name == e.Name {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	e.ID = primitive.NewObjectID()
	r.db.library[e.ID] = *e
	return e.ID, nil
}

func (r libraryRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.LibraryExercise, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.library[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r libraryRepoMock) ListByCoach(_ context.Context, coachID primitive.ObjectID) ([]domain.LibraryExercise, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.LibraryExercise
	for _, e := range r.db.library {
		if e.CoachID == coachID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r libraryRepoMock) Update(_ context.Context, e *domain.LibraryExercise) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.library[e.ID]
	if !ok || existing.CoachID != e.CoachID {
		return repository.ErrNotFound
	}
	r.db.library[e.ID] = *e
	return nil
}

func (r libraryRepoMock) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.library[id]
	if !ok || e.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.db.library, id)
	return nil
}

// --- media ---

type mediaRepoMock struct{ db *memDB }

func (r mediaRepoMock) Create(_ context.Context, a *domain.MediaAsset) (primitive.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.ID = primitive.NewObjectID()
	r.db.media[a.ID] = *a
	return a.ID, nil
}

func (r mediaRepoMock) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MediaAsset, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.media[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r mediaRepoMock) ListByCoach(_ context.Context, coachID primitive.ObjectID) ([]domain.MediaAsset, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []domain.MediaAsset
	for _, a := range r.db.media {
		if a.CoachID == coachID {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- stats ---

// statsRepoMock returns canned values, or errs for the aggregates named in fail.
type statsRepoMock struct {
	fail      map[string]error
	activity  []domain.WeeklyActivity
	trends    []domain.FitnessTrend
	active    int
	total     int
	completed int
	averages  domain.ScaleAverages
}

func (r *statsRepoMock) CoachWeeklyActivity(context.Context, primitive.ObjectID, time.Time) ([]domain.WeeklyActivity, error) {
	return r.activity, r.fail[AggWeeklyActivity]
}

func (r *statsRepoMock) CoachActiveThisWeek(context.Context, primitive.ObjectID, time.Time) (int, error) {
	return r.active, r.fail[AggActiveThisWeek]
}

func (r *statsRepoMock) CoachFitnessTrends(context.Context, primitive.ObjectID, time.Time) ([]domain.FitnessTrend, error) {
	return r.trends, r.fail[AggFitnessTrends]
}

func (r *statsRepoMock) CoachProgramCounts(context.Context, primitive.ObjectID) (int, int, error) {
	return r.total, r.completed, r.fail[AggProgramCounts]
}

func (r *statsRepoMock) AthleteProgramCounts(context.Context, primitive.ObjectID) (int, int, error) {
	return r.total, r.completed, r.fail[AggProgramCounts]
}

func (r *statsRepoMock) AthleteAssessmentAverages(context.Context, primitive.ObjectID) (domain.ScaleAverages, error) {
	return r.averages, r.fail[AggAverages]
}

// --- drafts and storage ---

// draftStoreMock round trips snapshots through JSON like the Redis store.
type draftStoreMock struct {
	mu     sync.Mutex
	drafts map[string][]byte
	seq    int
}

func newDraftStoreMock() *draftStoreMock {
	return &draftStoreMock{drafts: map[string][]byte{}}
}

func (s *draftStoreMock) key(coachID primitive.ObjectID, id string) string {
	return coachID.Hex() + ":" + id
}

func (s *draftStoreMock) Create(_ context.Context, coachID primitive.ObjectID, snap builder.Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := "draft-" + strconv.Itoa(s.seq)
	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	s.drafts[s.key(coachID, id)] = data
	return id, nil
}

func (s *draftStoreMock) Load(_ context.Context, coachID primitive.ObjectID, id string) (builder.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.drafts[s.key(coachID, id)]
	if !ok {
		return builder.Snapshot{}, draft.ErrDraftNotFound
	}
	var snap builder.Snapshot
	err := json.Unmarshal(data, &snap)
	return snap, err
}

func (s *draftStoreMock) Save(_ context.Context, coachID primitive.ObjectID, id string, snap builder.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(coachID, id)
	if _, ok := s.drafts[k]; !ok {
		return draft.ErrDraftNotFound
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.drafts[k] = data
	return nil
}

func (s *draftStoreMock) Delete(_ context.Context, coachID primitive.ObjectID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(coachID, id)
	if _, ok := s.drafts[k]; !ok {
		return draft.ErrDraftNotFound
	}
	delete(s.drafts, k)
	return nil
}

type fileStorageMock struct {
	objects map[string]int64
}

func (f *fileStorageMock) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://s3.test/upload/" + key, nil
}

func (f *fileStorageMock) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/download/" + key, nil
}

func (f *fileStorageMock) StatObject(_ context.Context, key string) (int64, error) {
	size, ok := f.objects[key]
	if !ok {
		return 0, storage.ErrObjectNotFound
	}
	return size, nil
}

func (f *fileStorageMock) DeleteObject(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}
