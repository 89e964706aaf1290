package document

import (
	"log"

	"github.com/wsustone/L2L-United/internal/domain"
)

type Handler struct {
	Log       *log.Logger
	Documents domain.DocumentsRepo
	Storage   domain.BlobStorage
}
