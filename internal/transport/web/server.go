package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/wsustone/L2L-United/internal/config"
	"github.com/wsustone/L2L-United/internal/domain"
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

// folder listings stay cached this long
const folderListTTL = 30

// Gate answers permission questions for the folder tree.
type Gate interface {
	folder.AccessGate
}

// Deps collects everything the HTTP layer is wired with.
type Deps struct {
	Profiles  domain.ProfilesRepo
	Folders   domain.FoldersRepo
	Files     domain.FilesRepo
	APIKeys   domain.APIKeysRepo
	Documents domain.DocumentsRepo
	Perms     domain.PermissionsRepo

	Gate    Gate
	Storage domain.BlobStorage
	Cache   domain.Cache

	Hasher    domain.PasswordHasher
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
	KeyAuth   domain.KeyAuthenticator

	Mailer domain.Mailer

	TermsVersion string
}

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, d Deps) *Server {
	sub := func(name string) *log.Logger {
		return log.New(logger.Writer(), logger.Prefix()+"["+name+"] ", logger.Flags())
	}

	dbPinger, cachePinger, storagePinger := pingers(d)

	h := handlers{
		health: &health.Handler{Log: sub("health"), DB: dbPinger, Cache: cachePinger, Storage: storagePinger},
		folders: &folder.Handler{
			Log: sub("folders"), Folders: d.Folders, Files: d.Files,
			Gate: d.Gate, Perms: d.Perms, Storage: d.Storage, Cache: d.Cache,
			AdminToken: cfg.AuthAdminToken, ListTTL: folderListTTL,
		},
		files:     &file.Handler{Log: sub("files"), Files: d.Files, Gate: d.Gate, Storage: d.Storage},
		apiKeys:   &apikey.Handler{Log: sub("apikeys"), Keys: d.APIKeys},
		documents: &document.Handler{Log: sub("documents"), Documents: d.Documents, Storage: d.Storage},
		profile: &profile.Handler{
			Log: sub("profile"), Profiles: d.Profiles, Documents: d.Documents,
			Storage: d.Storage, TermsVersion: d.TermsVersion,
		},
		authEmail: &authemail.Handler{
			Log: sub("authemail"), Cfg: cfg, Profiles: d.Profiles,
			Tokens: d.Tokens, Mailer: d.Mailer,
		},
		register: &auth.HandlerRegister{Log: sub("auth"), Profiles: d.Profiles, Hasher: d.Hasher, AdminToken: cfg.AuthAdminToken},
		login:    &auth.HandlerLogin{Log: sub("auth"), Profiles: d.Profiles, Hasher: d.Hasher, Tokens: d.Tokens},
		logout:   &auth.HandlerLogout{Log: sub("auth"), Tokens: d.Tokens, Blacklist: d.Blacklist},
		verify:   &auth.HandlerVerify{Log: sub("auth"), Tokens: d.Tokens, Blacklist: d.Blacklist},
	}

	bearer := mw.AuthDeps{Tokens: d.Tokens, Blacklist: d.Blacklist}
	keyed := mw.AuthDeps{Tokens: d.Tokens, Blacklist: d.Blacklist, APIKeys: d.KeyAuth}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(h, bearer, keyed, logger),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func pingers(d Deps) (db, cache, storage health.Pinger) {
	return d.Profiles, d.Cache, d.Storage
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
