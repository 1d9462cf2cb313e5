package versions

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris-arsenault/illuminator/internal/interface/cli/common"
)

// NewCommand creates the versions command
func NewCommand() *cobra.Command {
	var (
		jsonOutput bool
		setActive  string
		deleteID   string
	)

	cmd := &cobra.Command{
		Use:   "versions <narrative-id>",
		Short: "List or manage content versions",
		Long: `List the content versions of a narrative. With --set-active the
active pointer is moved; with --delete an edit version is removed.
The original draft cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			narrativeID := args[0]

			if setActive != "" && deleteID != "" {
				return fmt.Errorf("--set-active and --delete are mutually exclusive")
			}

			format := "cli"
			if jsonOutput {
				format = "json"
			}
			container, err := common.InitializeContainer(ctx, format)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer container.Close()

			uc := container.GetWorkflowUseCase()
			pres := container.GetPresenter()

			switch {
			case setActive != "":
				view, err := uc.SetActiveVersion(ctx, narrativeID, setActive)
				if err != nil {
					return pres.PresentError(err)
				}
				return pres.PresentSuccess(fmt.Sprintf("Active version set to %s", setActive), view)
			case deleteID != "":
				view, err := uc.DeleteVersion(ctx, narrativeID, deleteID)
				if err != nil {
					return pres.PresentError(err)
				}
				return pres.PresentSuccess(fmt.Sprintf("Deleted version %s", deleteID), view)
			default:
				view, err := uc.Get(ctx, narrativeID)
				if err != nil {
					return pres.PresentError(err)
				}
				return pres.PresentSuccess(fmt.Sprintf("%d version(s)", len(view.Versions)), view)
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&setActive, "set-active", "", "Version ID to make active")
	cmd.Flags().StringVar(&deleteID, "delete", "", "Edit version ID to delete")

	return cmd
}
