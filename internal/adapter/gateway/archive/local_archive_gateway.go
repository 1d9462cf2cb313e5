package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

// LocalArchiveGateway implements ArchiveGateway on a local filesystem.
// Directory structure: <baseDir>/narratives/<narrativeID>/<name>
// with a <name>.meta.json sidecar per artifact.
type LocalArchiveGateway struct {
	fs      afero.Fs
	baseDir string
}

// NewLocalArchiveGateway creates a filesystem-backed archive gateway
func NewLocalArchiveGateway(fs afero.Fs, baseDir string) (*LocalArchiveGateway, error) {
	if err := fs.MkdirAll(filepath.Join(baseDir, "narratives"), 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &LocalArchiveGateway{fs: fs, baseDir: baseDir}, nil
}

// SaveArtifact writes an artifact and its metadata sidecar
func (g *LocalArchiveGateway) SaveArtifact(ctx context.Context, req output.SaveArtifactRequest) (*output.ArtifactMetadata, error) {
	dir := filepath.Join(g.baseDir, "narratives", req.NarrativeID)
	if err := g.fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create narrative archive directory: %w", err)
	}

	contentPath := filepath.Join(dir, req.Name)
	if err := afero.WriteFile(g.fs, contentPath, req.Content, 0644); err != nil {
		return nil, fmt.Errorf("write artifact content: %w", err)
	}

	metadata := output.ArtifactMetadata{
		Key:         contentPath,
		NarrativeID: req.NarrativeID,
		ContentType: req.ContentType,
		Size:        int64(len(req.Content)),
		ArchivedAt:  time.Now().UTC(),
		Metadata:    req.Metadata,
	}

	metadataJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	if err := afero.WriteFile(g.fs, contentPath+".meta.json", metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	return &metadata, nil
}

// LoadArtifact reads an artifact by its key (the content path)
func (g *LocalArchiveGateway) LoadArtifact(ctx context.Context, key string) (*output.Artifact, error) {
	content, err := afero.ReadFile(g.fs, key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact not found: %s", key)
		}
		return nil, fmt.Errorf("read artifact content: %w", err)
	}

	artifact := &output.Artifact{Key: key, Content: content}

	metadataJSON, err := afero.ReadFile(g.fs, key+".meta.json")
	if err == nil {
		// Sidecar is best effort; a missing one leaves zero metadata
		_ = json.Unmarshal(metadataJSON, &artifact.Metadata)
	}

	return artifact, nil
}

// ListArtifacts lists artifacts archived for a narrative
func (g *LocalArchiveGateway) ListArtifacts(ctx context.Context, narrativeID string) ([]*output.ArtifactMetadata, error) {
	dir := filepath.Join(g.baseDir, "narratives", narrativeID)

	exists, err := afero.DirExists(g.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("check archive directory: %w", err)
	}
	if !exists {
		return []*output.ArtifactMetadata{}, nil
	}

	entries, err := afero.ReadDir(g.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read archive directory: %w", err)
	}

	var metadataList []*output.ArtifactMetadata
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		metadataJSON, err := afero.ReadFile(g.fs, filepath.Join(dir, entry.Name()+".meta.json"))
		if err != nil {
			continue
		}

		var metadata output.ArtifactMetadata
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			continue
		}
		metadataList = append(metadataList, &metadata)
	}

	return metadataList, nil
}
