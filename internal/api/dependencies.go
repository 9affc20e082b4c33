package api

import (
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/config"
	"trainingorg/quizdesk/internal/db/repositories"
	"trainingorg/quizdesk/internal/jobs"
	"trainingorg/quizdesk/internal/metrics"
	"trainingorg/quizdesk/internal/services"
)

type Repositories struct {
	UserGorm *repositories.UserRepositoryGORM
	Members  *repositories.MemberRepository
	Admin    *repositories.AdminRepository
}

type Services struct {
	Cache       common.CacheInterface
	Session     *common.SessionService
	Signer      *common.TokenSigner
	User        *services.UserService
	Auth        *services.AuthService
	Members     *services.MemberService
	Import      *services.MemberImportService
	QuizLevels  *services.QuizLevelService
	Quizzes     *services.QuizService
	Evaluations *services.EvaluationService
	Admin       *services.AdminService
	Stats       *services.StatsService
}

type Dependencies struct {
	Config    *config.Config
	DB        *sqlx.DB
	PgDB      *gorm.DB
	Redis     *redis.Client
	Metrics   *metrics.MetricsRegistry
	Validator *common.Validator
	Repo      *Repositories
	Services  *Services
	Jobs      *jobs.JobsContainer
}

// InitDependencies wires repositories and services on top of the shared pool.
// Redis backs the cache and sessions when redisClient is non-nil; otherwise both
// live in process.
func InitDependencies(
	cfg *config.Config,
	sqlDB *sqlx.DB,
	pgDB *gorm.DB,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	if cfg == nil || sqlDB == nil || pgDB == nil {
		return nil, errors.New("config and database handles are required")
	}

	repos := &Repositories{
		UserGorm: repositories.NewUserRepositoryGORM(pgDB),
		Members:  repositories.NewMemberRepository(pgDB),
		Admin:    repositories.NewAdminRepository(sqlDB),
	}

	var (
		cache          common.CacheInterface
		sessionBackend common.SessionBackend
	)
	if redisClient != nil {
		cache = common.NewRedisCacheService(redisClient, "quizdesk:cache:")
		sessionBackend = common.NewRedisSessionBackend(redisClient)
	} else {
		cache = common.NewCacheService(5*time.Minute, 10*time.Minute)
		sessionBackend = common.NewMemorySessionBackend()
	}

	sessions := common.NewSessionService(sessionBackend, cfg.Session.TTL)
	signer := common.NewTokenSigner([]byte(cfg.Session.Secret))
	userSvc := services.NewUserService(repos.UserGorm, bcrypt.DefaultCost)

	svcs := &Services{
		Cache:       cache,
		Session:     sessions,
		Signer:      signer,
		User:        userSvc,
		Auth:        services.NewAuthService(userSvc, sessions, signer),
		Members:     services.NewMemberService(pgDB, repos.Members, repos.UserGorm),
		Import:      services.NewMemberImportService(pgDB, cfg.Import.StrictLookups, metricsReg),
		QuizLevels:  services.NewQuizLevelService(pgDB, cache, metricsReg),
		Quizzes:     services.NewQuizService(pgDB, metricsReg),
		Evaluations: services.NewEvaluationService(pgDB, repos.UserGorm, metricsReg),
		Admin:       services.NewAdminService(repos.Admin, cfg.Admin, metricsReg),
		Stats:       services.NewStatsService(pgDB, cache, metricsReg),
	}

	return &Dependencies{
		Config:    cfg,
		DB:        sqlDB,
		PgDB:      pgDB,
		Redis:     redisClient,
		Metrics:   metricsReg,
		Validator: common.NewValidator(),
		Repo:      repos,
		Services:  svcs,
	}, nil
}
