package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris-arsenault/illuminator/internal/application/dto"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/common"
)

// NewCommand creates the list command
func NewCommand() *cobra.Command {
	var (
		jsonOutput   bool
		simulationID string
		eraID        string
		statuses     []string
		limit        int
		offset       int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List narratives",
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

			views, err := uc.List(ctx, dto.ListNarrativesInput{
				SimulationID: simulationID,
				EraID:        eraID,
				Statuses:     statuses,
				Limit:        limit,
				Offset:       offset,
			})
			if err != nil {
				return pres.PresentError(err)
			}

			return pres.PresentSuccess(fmt.Sprintf("%d narrative(s)", len(views)), views)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&simulationID, "simulation", "", "Filter by simulation ID")
	cmd.Flags().StringVar(&eraID, "era", "", "Filter by era ID")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")

	return cmd
}
