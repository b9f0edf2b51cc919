package config

import (
	"context"
	"fmt"

	"github.com/campushq/enrollment-system/orchestrator-service/application"
	"github.com/campushq/enrollment-system/orchestrator-service/handlers"
	"github.com/campushq/enrollment-system/orchestrator-service/sagas"
	"github.com/campushq/enrollment-system/shared/events"
	sharedinfra "github.com/campushq/enrollment-system/shared/infrastructure"
	"github.com/campushq/enrollment-system/shared/saga"
	"github.com/campushq/enrollment-system/shared/telemetry"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Dependencies struct {
	// Logging
	Logger *zap.Logger

	// Database
	DB *sqlx.DB

	// Stores
	SagaStore    saga.InstanceStore
	EventJournal events.Journal

	// Saga core
	Registry   *saga.Registry
	Dispatcher *saga.Dispatcher
	Sweeper    *saga.Sweeper

	// Use Cases
	GetSaga      *application.GetSaga
	ListSagas    *application.ListSagas
	GetSagaTrail *application.GetSagaTrail

	// HTTP Handlers
	SagaHandlers *handlers.SagaHandlers

	// Infrastructure
	EventPublisher  *sharedinfra.SNSPublisherAdapter
	EventSubscriber *sharedinfra.SQSSubscriberAdapter

	// Telemetry
	Telemetry         *telemetry.Telemetry
	TelemetryShutdown func()
}

func BuildDependencies(ctx context.Context, config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	logger, err := buildLogger(config.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	deps.Logger = logger

	// Initialize telemetry first
	if config.Telemetry.Enabled {
		telConfig := telemetry.OrchestratorServiceConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint)
		tel, telemetryShutdown, err := telemetry.InitTelemetry(ctx, telConfig)
		if err != nil {
			logger.Warn("failed to initialize telemetry, continuing without", zap.Error(err))
		} else {
			deps.Telemetry = tel
			deps.TelemetryShutdown = telemetryShutdown
		}
	}

	// Initialize database
	db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.DB = db

	deps.SagaStore = sharedinfra.NewPostgresSagaStore(db)
	deps.EventJournal = sharedinfra.NewPostgresEventJournal(db)

	// Initialize AWS infrastructure
	eventPublisher, err := sharedinfra.NewSNSPublisherAdapter(config.AWS.SNSTopicArn)
	if err != nil {
		return nil, fmt.Errorf("failed to create SNS publisher: %w", err)
	}
	deps.EventPublisher = eventPublisher

	eventSubscriber, err := sharedinfra.NewSQSSubscriberAdapter(
		config.AWS.SQSQueueURL,
		sharedinfra.WithWorkers(int32(config.Saga.Workers)),
		sharedinfra.WithSubscriberLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQS subscriber: %w", err)
	}
	deps.EventSubscriber = eventSubscriber

	// Register saga definitions; registration conflicts abort startup
	registry := saga.NewRegistry()
	registry.Register(sagas.NewCourseEnrollment(config.EnrollmentTimeout(), config.CompensationTimeout()))
	deps.Registry = registry

	deps.Dispatcher = saga.NewDispatcher(
		registry,
		deps.SagaStore,
		eventPublisher,
		saga.WithJournal(deps.EventJournal),
		saga.WithLogger(logger),
		saga.WithMaxDispatchTries(uint(config.Saga.MaxDispatchTries)),
	)

	deps.Sweeper = saga.NewSweeper(
		deps.SagaStore,
		deps.Dispatcher,
		saga.WithSweepInterval(config.SweepInterval()),
		saga.WithSweeperLogger(logger),
	)

	// Initialize use cases
	deps.GetSaga = application.NewGetSaga(deps.SagaStore)
	deps.ListSagas = application.NewListSagas(deps.SagaStore)
	deps.GetSagaTrail = application.NewGetSagaTrail(deps.EventJournal)

	// Initialize handlers
	deps.SagaHandlers = handlers.NewSagaHandlers(deps.GetSaga, deps.ListSagas, deps.GetSagaTrail)

	return deps, nil
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.Sweeper != nil {
		d.Sweeper.Stop()
	}

	if d.EventSubscriber != nil {
		if err := d.EventSubscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event subscriber: %w", err))
		}
	}

	if d.EventPublisher != nil {
		if err := d.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.TelemetryShutdown != nil {
		d.TelemetryShutdown()
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
