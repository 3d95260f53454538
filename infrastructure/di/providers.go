package di

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeffa5/matcher/application/ports"
	"github.com/jeffa5/matcher/application/services"
	"github.com/jeffa5/matcher/infrastructure/config"
	"github.com/jeffa5/matcher/infrastructure/persistence/bolt"
	"github.com/jeffa5/matcher/interfaces/http/rest"
	"github.com/jeffa5/matcher/pkg/auth"
)

// Container holds all application dependencies
type Container struct {
	Config             *config.Config
	Logger             *zap.Logger
	Store              *bolt.Store
	AuthService        *services.AuthService
	ParticipantService *services.ParticipantService
	RoundService       *services.RoundService
	Router             *rest.Router
}

// Shutdown releases the container's resources.
func (c *Container) Shutdown() error {
	if err := c.Store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	// Sync flushes buffered logs; stderr refuses sync on some platforms,
	// which is harmless here.
	_ = c.Logger.Sync()
	return nil
}

// ProvideLogger builds the zap logger for the configured environment.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideStore opens the embedded database.
func ProvideStore(cfg *config.Config) (*bolt.Store, error) {
	return bolt.Open(cfg.DatabasePath)
}

// ProvideMatchStore binds the round persistence port.
func ProvideMatchStore(store *bolt.Store) ports.MatchStore {
	return bolt.NewMatchStore(store)
}

// ProvideParticipantRepository binds the registry port.
func ProvideParticipantRepository(store *bolt.Store) ports.ParticipantRepository {
	return bolt.NewParticipantRepository(store)
}

// ProvideCredentialRepository binds the credential port.
func ProvideCredentialRepository(store *bolt.Store) ports.CredentialRepository {
	return bolt.NewCredentialRepository(store)
}

// ProvideSessionRepository binds the session port.
func ProvideSessionRepository(store *bolt.Store) ports.SessionRepository {
	return bolt.NewSessionRepository(store)
}

// ProvideMatchHistoryRepository binds the history port.
func ProvideMatchHistoryRepository(store *bolt.Store) ports.MatchHistoryRepository {
	return bolt.NewMatchHistoryRepository(store)
}

// ProvideTokenManager builds the session token signer.
func ProvideTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.SessionSecret(), cfg.JWTIssuer, services.SessionTTL)
}

// ProvideAuthService builds the auth service.
func ProvideAuthService(
	participants ports.ParticipantRepository,
	credentials ports.CredentialRepository,
	sessions ports.SessionRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *services.AuthService {
	return services.NewAuthService(participants, credentials, sessions, tokens, logger)
}

// ProvideParticipantService builds the participant service.
func ProvideParticipantService(
	participants ports.ParticipantRepository,
	history ports.MatchHistoryRepository,
	logger *zap.Logger,
) *services.ParticipantService {
	return services.NewParticipantService(participants, history, logger)
}

// ProvideRoundService builds the round orchestrator.
func ProvideRoundService(store ports.MatchStore, logger *zap.Logger) *services.RoundService {
	return services.NewRoundService(store, logger)
}

// ProvideRouter builds the HTTP router.
func ProvideRouter(
	cfg *config.Config,
	authService *services.AuthService,
	participantService *services.ParticipantService,
	roundService *services.RoundService,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, authService, participantService, roundService, logger)
}
