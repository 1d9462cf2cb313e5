package di

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "github.com/mattn/go-sqlite3"

	archivegateway "github.com/chris-arsenault/illuminator/internal/adapter/gateway/archive"
	generationgateway "github.com/chris-arsenault/illuminator/internal/adapter/gateway/generation"
	"github.com/chris-arsenault/illuminator/internal/adapter/presenter"
	"github.com/chris-arsenault/illuminator/internal/app"
	appconfig "github.com/chris-arsenault/illuminator/internal/app/config"
	"github.com/chris-arsenault/illuminator/internal/application/port/input"
	"github.com/chris-arsenault/illuminator/internal/application/port/output"
	workflowusecase "github.com/chris-arsenault/illuminator/internal/application/usecase/workflow"
	"github.com/chris-arsenault/illuminator/internal/domain/repository"
	sqliterepo "github.com/chris-arsenault/illuminator/internal/infrastructure/persistence/sqlite"
	"github.com/chris-arsenault/illuminator/internal/infrastructure/transaction"
)

// Container is the DI container that holds all dependencies.
// Manual dependency injection, wired in dependency order.
type Container struct {
	db *sql.DB

	narrativeRepo repository.NarrativeRepository
	lockRepo      repository.RunLockRepository
	txManager     output.TransactionManager

	generationGateway output.GenerationGateway
	archiveGateway    output.ArchiveGateway

	workflowUseCase input.NarrativeWorkflowUseCase
	presenter       output.Presenter

	settings *appconfig.Settings
}

// Config holds configuration for the container
type Config struct {
	Settings     *appconfig.Settings
	OutputFormat string // cli or json
	OutputWriter io.Writer
	Observer     output.StatusObserver
}

// NewContainer creates and initializes the DI container
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	if cfg.Settings == nil {
		cfg.Settings = &appconfig.Settings{}
	}
	if cfg.OutputWriter == nil {
		cfg.OutputWriter = os.Stdout
	}

	c := &Container{settings: cfg.Settings}

	if err := c.initializeInfrastructure(ctx, cfg); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	c.workflowUseCase = workflowusecase.NewWorkflowUseCaseImpl(
		c.narrativeRepo,
		c.lockRepo,
		c.generationGateway,
		cfg.Observer,
		c.txManager,
		cfg.Settings.LockTTL(),
	)

	switch cfg.OutputFormat {
	case "json":
		c.presenter = presenter.NewJSONPresenter(cfg.OutputWriter)
	default:
		c.presenter = presenter.NewCLINarrativePresenter(cfg.OutputWriter)
	}

	return c, nil
}

func (c *Container) initializeInfrastructure(ctx context.Context, cfg Config) error {
	dbPath := cfg.Settings.DatabasePath
	if dbPath == "" {
		paths := app.GetPaths()
		if err := os.MkdirAll(paths.Home, 0755); err != nil {
			return fmt.Errorf("failed to create home directory: %w", err)
		}
		dbPath = paths.Database
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	if err := sqliterepo.NewMigrator(db).Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.narrativeRepo = sqliterepo.NewNarrativeRepository(db)
	c.lockRepo = sqliterepo.NewRunLockRepository(db)
	c.txManager = transaction.NewSQLiteTransactionManager(db)

	c.generationGateway, err = generationgateway.NewGenerationGateway(ctx, generationgateway.Options{
		Backend:     cfg.Settings.Backend,
		Bin:         cfg.Settings.BackendBin,
		Model:       cfg.Settings.Model,
		APIKeyEnv:   cfg.Settings.APIKeyEnv,
		StepTimeout: cfg.Settings.StepTimeout(),
	})
	if err != nil {
		return fmt.Errorf("failed to create generation gateway: %w", err)
	}

	archiveBaseDir := cfg.Settings.Archive.BaseDir
	if archiveBaseDir == "" {
		archiveBaseDir = app.GetPaths().Archive
	}
	c.archiveGateway, err = archivegateway.NewArchiveGateway(ctx, archivegateway.Options{
		Type:    cfg.Settings.Archive.Type,
		BaseDir: archiveBaseDir,
		Bucket:  cfg.Settings.Archive.Bucket,
		Prefix:  cfg.Settings.Archive.Prefix,
		Region:  cfg.Settings.Archive.Region,
	})
	if err != nil {
		return fmt.Errorf("failed to create archive gateway: %w", err)
	}

	return nil
}

// GetWorkflowUseCase returns the narrative workflow use case
func (c *Container) GetWorkflowUseCase() input.NarrativeWorkflowUseCase {
	return c.workflowUseCase
}

// GetPresenter returns the presenter
func (c *Container) GetPresenter() output.Presenter {
	return c.presenter
}

// GetArchiveGateway returns the archive gateway
func (c *Container) GetArchiveGateway() output.ArchiveGateway {
	return c.archiveGateway
}

// GetNarrativeRepository returns the narrative repository
func (c *Container) GetNarrativeRepository() repository.NarrativeRepository {
	return c.narrativeRepo
}

// GetRunLockRepository returns the run lock repository
func (c *Container) GetRunLockRepository() repository.RunLockRepository {
	return c.lockRepo
}

// GetSettings returns the loaded settings
func (c *Container) GetSettings() *appconfig.Settings {
	return c.settings
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if closer, ok := c.generationGateway.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close generation gateway: %v\n", err)
		}
	}
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
