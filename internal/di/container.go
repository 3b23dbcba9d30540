package di

import (
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/gateway"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/handler"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/repository"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/service"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/database"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/redis"
)

// Container holds all dependencies for the marketplace API
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	EventStore   repository.EventStore
	ListCache    repository.ListCacheInvalidator
	ContractRepo repository.ContractRepository
	RangeRepo    repository.CommissionRangeRepository
	ProfileRepo  repository.ProfileRepository
	CompanyRepo  repository.CompanyRepository

	// Gateways and publishers
	AddressLookup    gateway.AddressLookup
	CatalogPublisher service.CatalogPublisher
	SubmissionLocker service.SubmissionLocker

	// Services
	ContractService   service.ContractService
	CommissionService service.CommissionService
	EventService      service.EventService
	WizardService     service.WizardService

	// Handlers
	HealthHandler     *handler.HealthHandler
	EventHandler      *handler.EventHandler
	WizardHandler     *handler.WizardHandler
	ContractHandler   *handler.ContractHandler
	CommissionHandler *handler.CommissionHandler
	AddressHandler    *handler.AddressHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB               *database.PostgresDB
	Redis            *redis.Client
	Log              *logger.Logger
	CatalogPublisher service.CatalogPublisher
	AddressConfig    *gateway.AddressClientConfig
	ServiceConfig    *service.EventServiceConfig
	CatalogCacheTTL  time.Duration
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:               cfg.DB,
		Redis:            cfg.Redis,
		CatalogPublisher: cfg.CatalogPublisher,
	}

	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	gatewayTimeout := time.Duration(0)
	if cfg.ServiceConfig != nil {
		gatewayTimeout = cfg.ServiceConfig.GatewayTimeout
	}

	// Initialize repositories
	pgEventStore := repository.NewPostgresEventRepository(c.DB.Pool())

	// Wrap with list cache if Redis is available
	if c.Redis != nil {
		cached := repository.NewCachedEventStore(pgEventStore, c.Redis, cfg.CatalogCacheTTL)
		c.EventStore = cached
		c.ListCache = cached
		c.SubmissionLocker = service.NewRedisSubmissionLocker(c.Redis)
	} else {
		c.EventStore = pgEventStore
		c.ListCache = repository.NoopListCache{}
		c.SubmissionLocker = service.NewLocalSubmissionLocker()
	}
	c.ContractRepo = repository.NewPostgresContractRepository(c.DB.Pool())
	c.RangeRepo = repository.NewPostgresCommissionRangeRepository(c.DB.Pool())
	c.ProfileRepo = repository.NewPostgresProfileRepository(c.DB.Pool())
	c.CompanyRepo = repository.NewPostgresCompanyRepository(c.DB.Pool())

	if c.CatalogPublisher == nil {
		c.CatalogPublisher = service.NewNoOpCatalogPublisher()
	}
	c.AddressLookup = gateway.NewAddressClient(cfg.AddressConfig, nil, log)

	// Initialize services
	c.ContractService = service.NewContractService(c.ContractRepo, c.RangeRepo, log, gatewayTimeout)
	c.CommissionService = service.NewCommissionService(c.RangeRepo, log)
	c.EventService = service.NewEventService(
		c.EventStore,
		c.ListCache,
		c.ProfileRepo,
		c.ContractService,
		c.SubmissionLocker,
		c.CatalogPublisher,
		log,
		cfg.ServiceConfig,
	)
	c.WizardService = service.NewWizardService(c.ProfileRepo, c.CompanyRepo, c.EventStore, c.ContractService, gatewayTimeout)

	// Initialize handlers
	health := map[string]handler.HealthChecker{"postgres": c.DB, "redis": nil}
	if c.Redis != nil {
		health["redis"] = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(health)
	c.EventHandler = handler.NewEventHandler(c.EventService, log)
	c.WizardHandler = handler.NewWizardHandler(c.WizardService, c.EventService, log)
	c.ContractHandler = handler.NewContractHandler(c.ContractService, log)
	c.CommissionHandler = handler.NewCommissionHandler(c.CommissionService, log)
	c.AddressHandler = handler.NewAddressHandler(c.AddressLookup, log)

	return c
}
