package start

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/chris-arsenault/illuminator/internal/application/dto"
	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/common"
)

// NewCommand creates the start command
func NewCommand() *cobra.Command {
	var (
		simulationID string
		eraID        string
		eraName      string
		tone         string
		arcOverride  string
		briefsPath   string
		worldPath    string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a narrative run interactively",
		Long: `Start a new era-narrative run. The workflow pauses after each
generation step so the output can be reviewed before continuing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			t := model.Tone(tone)
			if !t.IsValid() {
				return fmt.Errorf("unknown tone %q (valid: %s)", tone, toneList())
			}

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

			if simulationID == "" {
				simulationID = container.GetSettings().SimulationID
			}

			view, err := uc.StartNarrative(ctx, dto.StartNarrativeInput{
				SimulationID:         simulationID,
				EraID:                eraID,
				EraName:              eraName,
				Tone:                 t,
				ArcDirectionOverride: arcOverride,
				PrepBriefs:           briefs,
				World:                world,
			})
			if err != nil {
				return pres.PresentError(err)
			}

			return common.RunInteractive(ctx, uc, pres, view)
		},
	}

	cmd.Flags().StringVar(&simulationID, "simulation", "", "Simulation ID (defaults to settings)")
	cmd.Flags().StringVar(&eraID, "era", "", "Era ID")
	cmd.Flags().StringVar(&eraName, "era-name", "", "Era display name")
	cmd.Flags().StringVar(&tone, "tone", "", "Narrative tone ("+toneList()+")")
	cmd.Flags().StringVar(&arcOverride, "arc", "", "Arc direction override")
	cmd.Flags().StringVar(&briefsPath, "briefs", "", "Path to a prep-briefs YAML file")
	cmd.Flags().StringVar(&worldPath, "world", "", "Path to a world-context YAML file")
	cmd.MarkFlagRequired("era")
	cmd.MarkFlagRequired("era-name")
	cmd.MarkFlagRequired("tone")

	return cmd
}

func toneList() string {
	tones := model.AllTones()
	names := make([]string, 0, len(tones))
	for _, t := range tones {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
