package apikey

import (
	"log"

	"github.com/wsustone/L2L-United/internal/domain"
)

type Handler struct {
	Log  *log.Logger
	Keys domain.APIKeysRepo
}
