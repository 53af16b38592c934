// file: internals/repository/memstore/memstore.go
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	defenseModel "thesisflow_backend/internals/features/thesis/defenses/model"
	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	identityModel "thesisflow_backend/internals/features/users/identity/model"
	"thesisflow_backend/internals/repository"
)

var errReadOnly = errors.New("memstore: write inside View")

type assignmentKey struct {
	SessionID  uuid.UUID
	ExaminerID uuid.UUID
}

type state struct {
	users        map[uuid.UUID]identityModel.UserModel
	students     map[uuid.UUID]identityModel.StudentModel
	teachers     map[uuid.UUID]identityModel.TeacherModel
	departments  map[uuid.UUID]identityModel.DepartmentModel
	appointments map[uuid.UUID]identityModel.DepartmentHeadAppointmentModel

	proposals    map[uuid.UUID]proposalModel.ProposalModel
	theses       map[uuid.UUID]thesisModel.ThesisModel
	reviews      map[uuid.UUID]reviewModel.ReviewModel
	comments     map[uuid.UUID]reviewModel.CommentModel
	defenseDates map[uuid.UUID]defenseModel.DefenseDateModel
	sessions     map[uuid.UUID]defenseModel.DefenseSessionModel
	assignments  map[assignmentKey]defenseModel.CommitteeAssignmentModel

	reviewSeq int64
}

func newState() *state {
	return &state{
		users:        map[uuid.UUID]identityModel.UserModel{},
		students:     map[uuid.UUID]identityModel.StudentModel{},
		teachers:     map[uuid.UUID]identityModel.TeacherModel{},
		departments:  map[uuid.UUID]identityModel.DepartmentModel{},
		appointments: map[uuid.UUID]identityModel.DepartmentHeadAppointmentModel{},
		proposals:    map[uuid.UUID]proposalModel.ProposalModel{},
		theses:       map[uuid.UUID]thesisModel.ThesisModel{},
		reviews:      map[uuid.UUID]reviewModel.ReviewModel{},
		comments:     map[uuid.UUID]reviewModel.CommentModel{},
		defenseDates: map[uuid.UUID]defenseModel.DefenseDateModel{},
		sessions:     map[uuid.UUID]defenseModel.DefenseSessionModel{},
		assignments:  map[assignmentKey]defenseModel.CommitteeAssignmentModel{},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// clone copies every table. Stored values are structs whose reference
// fields are only ever replaced, never mutated in place, so a shallow copy
// per row is enough.
func (s *state) clone() *state {
	return &state{
		users:        cloneMap(s.users),
		students:     cloneMap(s.students),
		teachers:     cloneMap(s.teachers),
		departments:  cloneMap(s.departments),
		appointments: cloneMap(s.appointments),
		proposals:    cloneMap(s.proposals),
		theses:       cloneMap(s.theses),
		reviews:      cloneMap(s.reviews),
		comments:     cloneMap(s.comments),
		defenseDates: cloneMap(s.defenseDates),
		sessions:     cloneMap(s.sessions),
		assignments:  cloneMap(s.assignments),
		reviewSeq:    s.reviewSeq,
	}
}

// Store keeps everything in process memory. Read-write transactions are
// fully serialized and run on a private copy of the tables that replaces
// the live copy only when fn succeeds.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{st: newState(), now: func() time.Time { return time.Now().UTC() }}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ repository.Store = (*Store)(nil)

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&tx{st: work, now: s.now}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{st: s.st, now: s.now, readOnly: true})
}

type tx struct {
	st       *state
	now      func() time.Time
	readOnly bool
}

var _ repository.Tx = (*tx)(nil)

func (t *tx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

func newIDIfNil(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func stampIfZero(ts *time.Time, now time.Time) {
	if ts.IsZero() {
		*ts = now
	}
}

func page[T any](rows []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
