package common

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/chris-arsenault/illuminator/internal/app"
	appconfig "github.com/chris-arsenault/illuminator/internal/app/config"
	"github.com/chris-arsenault/illuminator/internal/application/port/output"
	"github.com/chris-arsenault/illuminator/internal/infrastructure/di"
)

// InitializeContainer creates a DI container from the settings file and
// environment. outputFormat selects the presenter ("cli" or "json").
func InitializeContainer(ctx context.Context, outputFormat string) (*di.Container, error) {
	return InitializeContainerWithObserver(ctx, outputFormat, nil)
}

// InitializeContainerWithObserver is InitializeContainer with a status
// observer wired into the workflow engine.
func InitializeContainerWithObserver(ctx context.Context, outputFormat string, observer output.StatusObserver) (*di.Container, error) {
	settings, err := appconfig.Load(afero.NewOsFs(), app.GetPaths().Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	app.SetLogger(app.NewLogger(os.Stderr, settings.LogLevel))

	return di.NewContainer(ctx, di.Config{
		Settings:     settings,
		OutputFormat: outputFormat,
		OutputWriter: os.Stdout,
		Observer:     observer,
	})
}
