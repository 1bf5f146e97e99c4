package main

import (
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/TravisBumgarner/just-recordings-sub001/internal"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/health"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/keys"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/metrics"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/progress"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/recording"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/session"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/share"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/storage"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/upload"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/user"
)

func main() {
	config, err := internal.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
		return
	}

	privateKey, publicKey, err := keys.DeriveRSAKeyPair(config.Auth.SigningSecret, config.Server.ExternalURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Error deriving RSA keys")
		return
	}
	log.Info().Msg("RSA keys initialized successfully")

	db, err := internal.NewDB(config.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
		return
	}

	backend, err := storage.NewBackend(&config.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing storage backend")
		return
	}

	sessionStore, err := session.NewStore(config.Sessions)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing session store")
		return
	}

	reaper := session.NewReaper(sessionStore, backend, config.Sessions)
	reaper.Start()
	defer reaper.Stop()

	userRepository := user.NewSQLRepository(db)
	userService := user.NewService(userRepository, config.Auth, privateKey, publicKey)
	userEndpoints := user.NewEndpoints(userService)

	jwksEndpoint, err := user.NewJWKSEndpoint(publicKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building JWKS document")
		return
	}

	hub := progress.NewHub()
	go hub.Run()
	metrics.RegisterProgressStats(hub.GetStats)
	wsHandler := progress.NewHandler(hub, userService)

	recordingRepository := recording.NewSQLRepository(db)
	recordingService := recording.NewService(recordingRepository, backend)
	recordingEndpoints := recording.NewEndpoints(recordingService)

	shareRepository := share.NewSQLRepository(db)
	shareService := share.NewService(shareRepository, recordingRepository, backend)
	shareEndpoints := share.NewEndpoints(shareService)

	uploadService := upload.NewService(sessionStore, backend, recordingRepository, hub)
	uploadEndpoints := upload.NewEndpoints(uploadService)

	storageEndpoints := storage.NewEndpoints(backend)
	healthEndpoints := health.NewEndpoints(config.Server.Version)

	requestHandler := internal.NewRequestHandler(
		config,
		userService,
		userEndpoints,
		jwksEndpoint,
		healthEndpoints,
		uploadEndpoints,
		recordingEndpoints,
		shareEndpoints,
		storageEndpoints,
		wsHandler,
	)

	log.Info().Str("addr", config.Server.Addr).Msg("Starting server")
	if err := fasthttp.ListenAndServe(config.Server.Addr, requestHandler); err != nil {
		log.Fatal().Err(err).Msg("Error starting server")
	}
}
