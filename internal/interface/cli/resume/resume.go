package resume

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/chris-arsenault/illuminator/internal/application/dto"
	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/common"
)

// NewCommand creates the resume command
func NewCommand() *cobra.Command {
	var (
		headless   bool
		briefsPath string
		worldPath  string
	)

	cmd := &cobra.Command{
		Use:   "resume <narrative-id>",
		Short: "Resume a persisted narrative run",
		Long: `Resume a run at its recorded state. A step that was in flight
when the process stopped is re-issued from scratch. Prep briefs and
world context are not persisted and must be supplied again for runs
that still have generation steps ahead.`,
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

			view, err := uc.ResumeNarrative(ctx, dto.ResumeNarrativeInput{
				NarrativeID: args[0],
				PrepBriefs:  briefs,
				World:       world,
			})
			if err != nil {
				return pres.PresentError(err)
			}

			if headless {
				for view.Status == model.StatusStepComplete.String() {
					view, err = uc.AdvanceStep(ctx, view.NarrativeID)
					if err != nil {
						return pres.PresentError(err)
					}
				}
				return pres.PresentSuccess(
					fmt.Sprintf("%s: %s ($%.4f)", view.EraName, view.Status, view.TotalActualCost),
					view,
				)
			}

			return common.RunInteractive(ctx, uc, pres, view)
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Run remaining steps without pausing")
	cmd.Flags().StringVar(&briefsPath, "briefs", "", "Path to a prep-briefs YAML file")
	cmd.Flags().StringVar(&worldPath, "world", "", "Path to a world-context YAML file")

	return cmd
}
