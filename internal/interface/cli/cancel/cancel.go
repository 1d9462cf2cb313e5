package cancel

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris-arsenault/illuminator/internal/interface/cli/common"
)

// NewCommand creates the cancel command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <narrative-id>",
		Short: "Cancel a narrative run",
		Long: `Mark a run cancelled. Cancelling an already-terminal run is a
no-op and succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			container, err := common.InitializeContainer(ctx, "cli")
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer container.Close()

			uc := container.GetWorkflowUseCase()
			pres := container.GetPresenter()

			view, err := uc.Cancel(ctx, args[0])
			if err != nil {
				return pres.PresentError(err)
			}

			return pres.PresentSuccess(fmt.Sprintf("%s: %s", view.EraName, view.Status), view)
		},
	}

	return cmd
}
