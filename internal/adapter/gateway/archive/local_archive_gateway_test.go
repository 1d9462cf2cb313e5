package archive

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

func TestLocalArchiveGateway_SaveAndLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	gateway, err := NewLocalArchiveGateway(fs, "/archive")
	require.NoError(t, err)
	ctx := context.Background()

	metadata, err := gateway.SaveArtifact(ctx, output.SaveArtifactRequest{
		NarrativeID: "nar-1",
		Name:        "era-narrative.md",
		Content:     []byte("# The Long Thaw\n\nOnce..."),
		ContentType: "text/markdown",
	})
	require.NoError(t, err)
	assert.Equal(t, "nar-1", metadata.NarrativeID)
	assert.Equal(t, int64(24), metadata.Size)

	artifact, err := gateway.LoadArtifact(ctx, metadata.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("# The Long Thaw\n\nOnce..."), artifact.Content)
	assert.Equal(t, "text/markdown", artifact.Metadata.ContentType)
}

func TestLocalArchiveGateway_LoadArtifact_NotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	gateway, err := NewLocalArchiveGateway(fs, "/archive")
	require.NoError(t, err)

	_, err = gateway.LoadArtifact(context.Background(), "/archive/narratives/missing/file.md")
	assert.Error(t, err)
}

func TestLocalArchiveGateway_ListArtifacts(t *testing.T) {
	fs := afero.NewMemMapFs()
	gateway, err := NewLocalArchiveGateway(fs, "/archive")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = gateway.SaveArtifact(ctx, output.SaveArtifactRequest{
		NarrativeID: "nar-1", Name: "first.md", Content: []byte("one"),
	})
	require.NoError(t, err)
	_, err = gateway.SaveArtifact(ctx, output.SaveArtifactRequest{
		NarrativeID: "nar-1", Name: "second.md", Content: []byte("two"),
	})
	require.NoError(t, err)
	_, err = gateway.SaveArtifact(ctx, output.SaveArtifactRequest{
		NarrativeID: "nar-2", Name: "other.md", Content: []byte("three"),
	})
	require.NoError(t, err)

	list, err := gateway.ListArtifacts(ctx, "nar-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	empty, err := gateway.ListArtifacts(ctx, "nar-3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
