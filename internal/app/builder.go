package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/wsustone/L2L-United/internal/access"
	"github.com/wsustone/L2L-United/internal/auth/apikey"
	"github.com/wsustone/L2L-United/internal/auth/blacklist"
	"github.com/wsustone/L2L-United/internal/auth/password"
	"github.com/wsustone/L2L-United/internal/auth/token"
	"github.com/wsustone/L2L-United/internal/config"
	"github.com/wsustone/L2L-United/internal/domain"
	redisx "github.com/wsustone/L2L-United/internal/infra/cache/redis"
	"github.com/wsustone/L2L-United/internal/infra/database/postgres"
	s3storage "github.com/wsustone/L2L-United/internal/infra/storage/s3"
	"github.com/wsustone/L2L-United/internal/mail/graph"
	"github.com/wsustone/L2L-United/internal/transport/web"
)

// termsVersion is the currently effective terms-of-use revision.
const termsVersion = "2025-06"

type App struct {
	config  *config.Config
	server  *web.Server
	log     *log.Logger
	storage domain.BlobStorage
	cache   domain.Cache
	repo    *postgres.PGRepo
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[portal] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	s3Log := log.New(base.Writer(), base.Prefix()+"[s3] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())
	mailLog := log.New(base.Writer(), base.Prefix()+"[mail] ", base.Flags())
	gateLog := log.New(base.Writer(), base.Prefix()+"[access] ", base.Flags())
	keyLog := log.New(base.Writer(), base.Prefix()+"[apikey] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	base.Println("init S3 storage")
	s3cfg := s3storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		PathStyle: cfg.S3PathStyle,
	}
	s3, err := s3storage.New(ctx, s3cfg, s3Log)
	if err != nil {
		return nil, fmt.Errorf("failed init s3: %w", err)
	}

	base.Println("init Redis")
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")

	base.Println("init Graph mailer")
	mailer, err := graph.New(graph.Config{
		TenantID:     cfg.GraphTenantID,
		ClientID:     cfg.GraphClientID,
		ClientSecret: cfg.GraphClientSecret,
		SenderEmail:  cfg.GraphSenderEmail,
		FromAlias:    cfg.GraphFromAlias,
	}, mailLog)
	if err != nil {
		return nil, fmt.Errorf("failed init mailer: %w", err)
	}

	// Auth primitives
	hasher := password.NewDefault()
	tm := token.New(cfg.AuthJWTSecret, cfg.AuthIssuer, cfg.AuthTokenTTL)
	bl := blacklist.NewStore(rc)
	keyAuth := &apikey.Authenticator{Log: keyLog, Keys: pgRepo}

	gate := &access.Gate{Log: gateLog, Perms: pgRepo, Cache: rc}

	base.Println("init Server")
	server := web.New(serverLog, cfg, web.Deps{
		Profiles:  pgRepo,
		Folders:   pgRepo,
		Files:     pgRepo,
		APIKeys:   pgRepo,
		Documents: pgRepo,
		Perms:     pgRepo,

		Gate:    gate,
		Storage: s3,
		Cache:   rc,

		Hasher:    hasher,
		Tokens:    tm,
		Blacklist: bl,
		KeyAuth:   keyAuth,

		Mailer: mailer,

		TermsVersion: termsVersion,
	})
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config:  cfg,
		server:  server,
		log:     base,
		storage: s3,
		repo:    pgRepo,
		cache:   rc}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	a.cache.Close()

	return nil
}
