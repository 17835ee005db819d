package api

import (
	"github.com/reelnotes/reelnotes-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Profile  *service.ProfileService
	Movie    *service.MovieService
	Taxonomy *service.TaxonomyService
	Curation *service.CurationService
	Blog     *service.BlogService
}
