package profile

import (
	"log"

	"github.com/wsustone/L2L-United/internal/domain"
)

type Handler struct {
	Log       *log.Logger
	Profiles  domain.ProfilesRepo
	Documents domain.DocumentsRepo
	Storage   domain.BlobStorage

	// TermsVersion is the currently effective terms revision stamped on accept.
	TermsVersion string
}
