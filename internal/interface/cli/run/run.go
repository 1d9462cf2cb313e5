package run

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chris-arsenault/illuminator/internal/adapter/presenter"
	"github.com/chris-arsenault/illuminator/internal/application/dto"
	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/common"
)

// NewCommand creates the run command
func NewCommand() *cobra.Command {
	var (
		simulationID string
		eras         []string
		tone         string
		arcOverride  string
		briefsPath   string
		worldPath    string
		parallel     int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run narratives headlessly to completion",
		Long: `Run one or more era narratives without pausing between steps.
Each --era takes the form <era-id>=<era-name>. With multiple eras the
runs proceed concurrently, one workflow per record.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			t := model.Tone(tone)
			if !t.IsValid() {
				return fmt.Errorf("unknown tone %q", tone)
			}

			targets, err := parseEras(eras)
			if err != nil {
				return err
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

			progress := common.NewStepObserver(presenter.NewCLINarrativePresenter(os.Stdout))
			container, err := common.InitializeContainerWithObserver(ctx, "cli", progress)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer container.Close()

			uc := container.GetWorkflowUseCase()
			pres := container.GetPresenter()

			if simulationID == "" {
				simulationID = container.GetSettings().SimulationID
			}

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(parallel)
			for _, target := range targets {
				target := target
				g.Go(func() error {
					view, err := uc.StartHeadless(gctx, dto.StartNarrativeInput{
						SimulationID:         simulationID,
						EraID:                target.id,
						EraName:              target.name,
						Tone:                 t,
						ArcDirectionOverride: arcOverride,
						PrepBriefs:           briefs,
						World:                world,
					})
					if err != nil {
						return fmt.Errorf("era %s: %w", target.id, err)
					}
					return pres.PresentSuccess(
						fmt.Sprintf("%s: %s ($%.4f)", view.EraName, view.Status, view.TotalActualCost),
						view,
					)
				})
			}

			if err := g.Wait(); err != nil {
				return pres.PresentError(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&simulationID, "simulation", "", "Simulation ID (defaults to settings)")
	cmd.Flags().StringArrayVar(&eras, "era", nil, "Era to run, as <era-id>=<era-name> (repeatable)")
	cmd.Flags().StringVar(&tone, "tone", "", "Narrative tone")
	cmd.Flags().StringVar(&arcOverride, "arc", "", "Arc direction override")
	cmd.Flags().StringVar(&briefsPath, "briefs", "", "Path to a prep-briefs YAML file")
	cmd.Flags().StringVar(&worldPath, "world", "", "Path to a world-context YAML file")
	cmd.Flags().IntVar(&parallel, "parallel", 2, "Maximum concurrent era runs")
	cmd.MarkFlagRequired("era")
	cmd.MarkFlagRequired("tone")

	return cmd
}

type eraTarget struct {
	id   string
	name string
}

func parseEras(specs []string) ([]eraTarget, error) {
	targets := make([]eraTarget, 0, len(specs))
	for _, s := range specs {
		id, name, found := strings.Cut(s, "=")
		if !found || id == "" || name == "" {
			return nil, fmt.Errorf("invalid --era %q: expected <era-id>=<era-name>", s)
		}
		targets = append(targets, eraTarget{id: id, name: name})
	}
	return targets, nil
}
