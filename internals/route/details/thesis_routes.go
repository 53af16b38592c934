package details

import (
	"github.com/gofiber/fiber/v2"

	defenseService "thesisflow_backend/internals/features/thesis/defenses/service"
	defenseRoute "thesisflow_backend/internals/features/thesis/defenses/route"
	proposalRoute "thesisflow_backend/internals/features/thesis/proposals/route"
	proposalService "thesisflow_backend/internals/features/thesis/proposals/service"
	reviewRoute "thesisflow_backend/internals/features/thesis/reviews/route"
	reviewService "thesisflow_backend/internals/features/thesis/reviews/service"
	thesisRoute "thesisflow_backend/internals/features/thesis/theses/route"
	thesisService "thesisflow_backend/internals/features/thesis/theses/service"
	identityService "thesisflow_backend/internals/features/users/identity/service"
	"thesisflow_backend/internals/helpers/storage"
	"thesisflow_backend/internals/repository"
)

// Services is the wired workflow, shared by every route group.
type Services struct {
	Identity  *identityService.Resolver
	Proposals *proposalService.ProposalService
	Theses    *thesisService.ThesisService
	Reviews   *reviewService.ReviewService
	Grading   *defenseService.GradingService
	Blobs     storage.BlobStore
}

func NewServices(store repository.Store, blobs storage.BlobStore) *Services {
	theses := thesisService.NewThesisService(store)
	return &Services{
		Identity:  identityService.NewResolver(store),
		Proposals: proposalService.NewProposalService(store, theses),
		Theses:    theses,
		Reviews:   reviewService.NewReviewService(store, theses),
		Grading:   defenseService.NewGradingService(store, theses),
		Blobs:     blobs,
	}
}

func ThesisUserRoutes(user fiber.Router, s *Services) {
	proposalRoute.ProposalUserRoutes(user, s.Proposals, s.Identity)
	thesisRoute.ThesisUserRoutes(user, s.Theses, s.Blobs)
	reviewRoute.ReviewUserRoutes(user, s.Reviews, s.Theses)
	defenseRoute.DefenseUserRoutes(user, s.Grading)
}

func ThesisAdminRoutes(admin fiber.Router, s *Services) {
	thesisRoute.ThesisAdminRoutes(admin, s.Theses, s.Blobs)
	reviewRoute.ReviewAdminRoutes(admin, s.Reviews, s.Theses)
	defenseRoute.DefenseAdminRoutes(admin, s.Grading)
}
