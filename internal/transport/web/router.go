package web

import (
	"log"
	"net/http"

	"github.com/wsustone/L2L-United/internal/transport/web/mw"
	"github.com/wsustone/L2L-United/internal/transport/web/v1/apikey"
	"github.com/wsustone/L2L-United/internal/transport/web/v1/auth"
	"github.com/wsustone/L2L-United/internal/transport/web/v1/authemail"
	"github.com/wsustone/L2L-United/internal/transport/web/v1/document"
	"github.com/wsustone/L2L-United/internal/transport/web/v1/file"
	"github.com/wsustone/L2L-United/internal/transport/web/v1/folder"
	"github.com/wsustone/L2L-United/internal/transport/web/v1/health"
	"github.com/wsustone/L2L-United/internal/transport/web/v1/profile"
)

type handlers struct {
	health    *health.Handler
	folders   *folder.Handler
	files     *file.Handler
	apiKeys   *apikey.Handler
	documents *document.Handler
	profile   *profile.Handler
	authEmail *authemail.Handler
	register  *auth.HandlerRegister
	login     *auth.HandlerLogin
	logout    *auth.HandlerLogout
	verify    *auth.HandlerVerify
}

func newRouter(h handlers, bearer, keyed mw.AuthDeps, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /v1/healthz", h.health.Liveness)
	mux.HandleFunc("GET /v1/readyz", h.health.Readiness)

	// auth lifecycle, public
	mux.HandleFunc("POST /v1/register", h.register.Register)
	mux.HandleFunc("POST /v1/auth", h.login.Login)
	mux.HandleFunc("DELETE /v1/auth", h.logout.Logout)
	mux.HandleFunc("DELETE /v1/auth/{token}", h.logout.Logout)
	mux.HandleFunc("POST /v1/auth/verify", h.verify.Verify)
	mux.HandleFunc("POST /v1/auth-email", h.authEmail.Send)

	// shared folders and files accept bearer tokens or API keys
	keyAuth := func(fn http.HandlerFunc) http.Handler { return mw.RequireAuth(keyed, fn) }
	mux.Handle("GET /v1/folders", keyAuth(h.folders.List))
	mux.Handle("POST /v1/folders", keyAuth(h.folders.Create))
	mux.Handle("GET /v1/folders/{id}", keyAuth(h.folders.Get))
	mux.Handle("DELETE /v1/folders/{id}", keyAuth(h.folders.Delete))
	mux.Handle("GET /v1/folders/{id}/files", keyAuth(h.folders.ListFiles))
	// base64 inflates the 100MB payload cap by roughly a third
	mux.Handle("POST /v1/folders/{id}/upload", keyAuth(limitBody(160<<20, h.folders.Upload)))
	mux.Handle("GET /v1/files/{id}/download", keyAuth(h.files.Download))
	mux.Handle("DELETE /v1/files/{id}", keyAuth(h.files.Delete))
	mux.Handle("GET /v1/documents", keyAuth(h.documents.List))
	mux.Handle("GET /v1/documents/{id}/download", keyAuth(h.documents.Download))

	// key management and the profile are session-only
	sessionAuth := func(fn http.HandlerFunc) http.Handler { return mw.RequireAuth(bearer, fn) }
	mux.Handle("GET /v1/api-keys", sessionAuth(h.apiKeys.List))
	mux.Handle("POST /v1/api-keys", sessionAuth(h.apiKeys.Create))
	mux.Handle("POST /v1/api-keys/{id}/toggle", sessionAuth(h.apiKeys.Toggle))
	mux.Handle("DELETE /v1/api-keys/{id}", sessionAuth(h.apiKeys.Delete))
	mux.Handle("GET /v1/profile", sessionAuth(h.profile.Get))
	mux.Handle("PUT /v1/profile", sessionAuth(h.profile.Update))
	mux.Handle("POST /v1/profile/accept-terms", sessionAuth(h.profile.AcceptTerms))
	mux.Handle("POST /v1/profile/nda", sessionAuth(limitBody(160<<20, h.profile.UploadNDA)))
	mux.Handle("GET /v1/profile/nda-template", sessionAuth(h.profile.NDATemplate))
	// grant administration is session-only on top of the admin token check
	mux.Handle("POST /v1/folders/{id}/permissions", sessionAuth(h.folders.Grant))

	// middleware
	return mw.CORS(mw.WithRequestID(mw.Logging(logger)(mux)))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
