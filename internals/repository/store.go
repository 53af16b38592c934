// file: internals/repository/store.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	defenseModel "thesisflow_backend/internals/features/thesis/defenses/model"
	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	identityModel "thesisflow_backend/internals/features/users/identity/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Store is the persistence boundary of the workflow services.
//
// WithinTx runs fn in one read-write transaction: every write made through
// tx commits together or not at all. Rows fetched with forUpdate=true stay
// locked until fn returns, which is what serializes concurrent mutations of
// the same proposal, thesis or defense session.
//
// View runs fn against a consistent read-only view; writes through tx
// inside View are not allowed.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
}

type Tx interface {
	IdentityTx
	ProposalTx
	ThesisTx
	ReviewTx
	DefenseTx
}

/* =========================
   Identity
   ========================= */

type IdentityTx interface {
	FindUser(ctx context.Context, id uuid.UUID) (*identityModel.UserModel, error)
	FindStudent(ctx context.Context, id uuid.UUID) (*identityModel.StudentModel, error)
	FindStudentByUser(ctx context.Context, userID uuid.UUID) (*identityModel.StudentModel, error)
	FindTeacher(ctx context.Context, id uuid.UUID) (*identityModel.TeacherModel, error)
	FindTeacherByUser(ctx context.Context, userID uuid.UUID) (*identityModel.TeacherModel, error)
	FindDepartment(ctx context.Context, id uuid.UUID) (*identityModel.DepartmentModel, error)
	FindDepartmentHead(ctx context.Context, departmentID uuid.UUID, asOf time.Time) (*identityModel.DepartmentHeadAppointmentModel, error)

	CreateUser(ctx context.Context, m *identityModel.UserModel) error
	CreateStudent(ctx context.Context, m *identityModel.StudentModel) error
	CreateTeacher(ctx context.Context, m *identityModel.TeacherModel) error
	CreateDepartment(ctx context.Context, m *identityModel.DepartmentModel) error
	CreateDepartmentHeadAppointment(ctx context.Context, m *identityModel.DepartmentHeadAppointmentModel) error
}

/* =========================
   Proposals
   ========================= */

type ProposalFilter struct {
	StudentID    *uuid.UUID
	TeacherID    *uuid.UUID
	DepartmentID *uuid.UUID
	Status       *proposalModel.ProposalStatus
	Offset       int
	Limit        int
}

type ProposalTx interface {
	CreateProposal(ctx context.Context, m *proposalModel.ProposalModel) error
	FindProposal(ctx context.Context, id uuid.UUID, forUpdate bool) (*proposalModel.ProposalModel, error)
	UpdateProposalStatus(ctx context.Context, id uuid.UUID, status proposalModel.ProposalStatus, decidedAt *time.Time) error
	ListProposals(ctx context.Context, f ProposalFilter) ([]proposalModel.ProposalModel, int64, error)
}

/* =========================
   Theses
   ========================= */

type ThesisFilter struct {
	Status *thesisModel.ThesisStatus
	Offset int
	Limit  int
}

type ThesisTx interface {
	// CreateThesis returns ErrDuplicate when the proposal already has one.
	CreateThesis(ctx context.Context, m *thesisModel.ThesisModel) error
	FindThesis(ctx context.Context, id uuid.UUID, forUpdate bool) (*thesisModel.ThesisModel, error)
	FindThesisByProposal(ctx context.Context, proposalID uuid.UUID) (*thesisModel.ThesisModel, error)
	// SaveThesis writes the mutable fields: status, pdf ref, final grade.
	SaveThesis(ctx context.Context, m *thesisModel.ThesisModel) error
	ListTheses(ctx context.Context, f ThesisFilter) ([]thesisModel.ThesisModel, int64, error)
}

/* =========================
   Reviews & comments
   ========================= */

type ReviewTx interface {
	CreateReview(ctx context.Context, m *reviewModel.ReviewModel) error
	FindReview(ctx context.Context, id uuid.UUID) (*reviewModel.ReviewModel, error)
	// LatestReview orders by created_at DESC, review_seq DESC.
	LatestReview(ctx context.Context, thesisID uuid.UUID) (*reviewModel.ReviewModel, error)
	ListReviews(ctx context.Context, thesisID uuid.UUID) ([]reviewModel.ReviewModel, error)
	SaveReview(ctx context.Context, m *reviewModel.ReviewModel) error

	CreateComment(ctx context.Context, m *reviewModel.CommentModel) error
	FindComment(ctx context.Context, id uuid.UUID) (*reviewModel.CommentModel, error)
	SaveComment(ctx context.Context, m *reviewModel.CommentModel) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
	ListComments(ctx context.Context, reviewID uuid.UUID) ([]reviewModel.CommentModel, error)
}

/* =========================
   Defense sessions & committee
   ========================= */

type DefenseTx interface {
	CreateDefenseDate(ctx context.Context, m *defenseModel.DefenseDateModel) error
	FindDefenseDate(ctx context.Context, id uuid.UUID) (*defenseModel.DefenseDateModel, error)
	ListDefenseDates(ctx context.Context, from *time.Time) ([]defenseModel.DefenseDateModel, error)

	// CreateDefenseSession returns ErrDuplicate when the thesis already has a live session.
	CreateDefenseSession(ctx context.Context, m *defenseModel.DefenseSessionModel) error
	FindDefenseSession(ctx context.Context, id uuid.UUID, forUpdate bool) (*defenseModel.DefenseSessionModel, error)
	FindLiveDefenseSessionByThesis(ctx context.Context, thesisID uuid.UUID, forUpdate bool) (*defenseModel.DefenseSessionModel, error)
	CancelDefenseSession(ctx context.Context, id uuid.UUID, at time.Time) error
	// MarkDefenseSessionFinalized is a compare-and-set on the finalized
	// marker: it reports false when the session was already finalized.
	MarkDefenseSessionFinalized(ctx context.Context, id uuid.UUID, at time.Time, average float64, snapshot map[string]any) (bool, error)

	// CreateAssignment returns ErrDuplicate when the (session, examiner) pair exists.
	CreateAssignment(ctx context.Context, m *defenseModel.CommitteeAssignmentModel) error
	FindAssignment(ctx context.Context, sessionID, examinerID uuid.UUID) (*defenseModel.CommitteeAssignmentModel, error)
	SaveAssignmentGrade(ctx context.Context, m *defenseModel.CommitteeAssignmentModel) error
	DeleteAssignment(ctx context.Context, sessionID, examinerID uuid.UUID) error
	ListAssignments(ctx context.Context, sessionID uuid.UUID) ([]defenseModel.CommitteeAssignmentModel, error)
}
