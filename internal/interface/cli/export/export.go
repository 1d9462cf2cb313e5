package export

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
	"github.com/chris-arsenault/illuminator/internal/interface/cli/common"
)

// NewCommand creates the export command
func NewCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "export <narrative-id>",
		Short: "Archive the active content of a narrative",
		Long: `Resolve the active content of a narrative and write it to the
configured archive (local directory or S3).`,
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

			content, err := uc.GetActiveContent(ctx, args[0])
			if err != nil {
				return pres.PresentError(err)
			}
			if content.Content == "" {
				return pres.PresentError(fmt.Errorf("narrative %s has no content to export", args[0]))
			}

			if name == "" {
				name = "narrative.md"
			}

			meta, err := container.GetArchiveGateway().SaveArtifact(ctx, output.SaveArtifactRequest{
				NarrativeID: content.NarrativeID,
				Name:        name,
				Content:     []byte(content.Content),
				ContentType: "text/markdown",
				Metadata: map[string]string{
					"era_id":            content.EraID,
					"era_name":          content.EraName,
					"active_version_id": content.ActiveVersionID,
					"word_count":        strconv.Itoa(content.WordCount),
				},
			})
			if err != nil {
				return pres.PresentError(err)
			}

			return pres.PresentSuccess(fmt.Sprintf("Exported %d words to %s", content.WordCount, meta.Key), meta)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Artifact name (default narrative.md)")

	return cmd
}
