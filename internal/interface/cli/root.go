package cli

import (
	"github.com/spf13/cobra"

	"github.com/chris-arsenault/illuminator/internal/interface/cli/cancel"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/export"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/list"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/reedit"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/resume"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/run"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/start"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/status"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/version"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/versions"
)

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "illuminator",
		Short: "Era-narrative workflow engine",
		Long: `Illuminator drives era narratives through a threads, generate,
and copy-edit pipeline against a pluggable generation backend.`,
		SilenceUsage: true,
		RunE:         func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.AddCommand(start.NewCommand())
	cmd.AddCommand(run.NewCommand())
	cmd.AddCommand(resume.NewCommand())
	cmd.AddCommand(status.NewCommand())
	cmd.AddCommand(list.NewCommand())
	cmd.AddCommand(versions.NewCommand())
	cmd.AddCommand(reedit.NewCommand())
	cmd.AddCommand(cancel.NewCommand())
	cmd.AddCommand(export.NewCommand())
	cmd.AddCommand(version.NewCommand())

	return cmd
}
