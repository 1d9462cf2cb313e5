package status

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris-arsenault/illuminator/internal/application/dto"
	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/common"
)

// NewCommand creates the status command
func NewCommand() *cobra.Command {
	var (
		jsonOutput   bool
		simulationID string
		eraID        string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the in-flight or most recent narrative",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

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

			if simulationID == "" {
				simulationID = container.GetSettings().SimulationID
			}

			// Prefer an in-flight run; fall back to the most recent record
			views, err := uc.List(ctx, dto.ListNarrativesInput{
				SimulationID: simulationID,
				EraID:        eraID,
				Statuses:     []string{model.StatusGenerating.String(), model.StatusStepComplete.String()},
				Limit:        1,
			})
			if err != nil {
				return pres.PresentError(err)
			}
			if len(views) == 0 {
				views, err = uc.List(ctx, dto.ListNarrativesInput{
					SimulationID: simulationID,
					EraID:        eraID,
					Limit:        1,
				})
				if err != nil {
					return pres.PresentError(err)
				}
			}
			if len(views) == 0 {
				return pres.PresentSuccess("No narratives found", nil)
			}

			view := views[0]
			return pres.PresentSuccess(
				fmt.Sprintf("%s: %s (step %s)", view.EraName, view.Status, view.CurrentStep),
				view,
			)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&simulationID, "simulation", "", "Filter by simulation ID")
	cmd.Flags().StringVar(&eraID, "era", "", "Filter by era ID")

	return cmd
}
