package reedit

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/chris-arsenault/illuminator/internal/application/dto"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/common"
)

// NewCommand creates the reedit command
func NewCommand() *cobra.Command {
	var (
		briefsPath string
		worldPath  string
	)

	cmd := &cobra.Command{
		Use:   "reedit <narrative-id>",
		Short: "Rerun copy edit on a completed narrative",
		Long: `Run the copy-edit step again on a completed narrative, appending
a new edit version and making it active. The input is the original
generate draft, not a prior edit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fs := afero.NewOsFs()
			briefs, err := common.LoadPrepBriefs(fs, briefsPath)
			if err != nil {
				return err
			}
			world, err := common.LoadWorldContext(fs, worldPath)
			if err != nil {
				return err
			}

			container, err := common.InitializeContainer(ctx, "cli")
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer container.Close()

			uc := container.GetWorkflowUseCase()
			pres := container.GetPresenter()

			view, err := uc.RerunCopyEdit(ctx, dto.RerunCopyEditInput{
				NarrativeID: args[0],
				PrepBriefs:  briefs,
				World:       world,
			})
			if err != nil {
				return pres.PresentError(err)
			}

			return pres.PresentSuccess(
				fmt.Sprintf("%s: new edit version active ($%.4f total)", view.EraName, view.TotalActualCost),
				view,
			)
		},
	}

	cmd.Flags().StringVar(&briefsPath, "briefs", "", "Path to a prep-briefs YAML file")
	cmd.Flags().StringVar(&worldPath, "world", "", "Path to a world-context YAML file")

	return cmd
}
