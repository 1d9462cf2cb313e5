package archive

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

// MockArchiveGateway is an in-memory ArchiveGateway for tests
type MockArchiveGateway struct {
	mu        sync.Mutex
	artifacts map[string]*output.Artifact
}

// NewMockArchiveGateway creates an in-memory archive gateway
func NewMockArchiveGateway() *MockArchiveGateway {
	return &MockArchiveGateway{artifacts: make(map[string]*output.Artifact)}
}

// SaveArtifact stores an artifact in memory
func (g *MockArchiveGateway) SaveArtifact(ctx context.Context, req output.SaveArtifactRequest) (*output.ArtifactMetadata, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := fmt.Sprintf("narratives/%s/%s", req.NarrativeID, req.Name)
	metadata := output.ArtifactMetadata{
		Key:         key,
		NarrativeID: req.NarrativeID,
		ContentType: req.ContentType,
		Size:        int64(len(req.Content)),
		ArchivedAt:  time.Now().UTC(),
		Metadata:    req.Metadata,
	}

	content := make([]byte, len(req.Content))
	copy(content, req.Content)
	g.artifacts[key] = &output.Artifact{Key: key, Content: content, Metadata: metadata}

	return &metadata, nil
}

// LoadArtifact retrieves a stored artifact
func (g *MockArchiveGateway) LoadArtifact(ctx context.Context, key string) (*output.Artifact, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	artifact, ok := g.artifacts[key]
	if !ok {
		return nil, fmt.Errorf("artifact not found: %s", key)
	}
	return artifact, nil
}

// ListArtifacts lists stored artifacts for a narrative
func (g *MockArchiveGateway) ListArtifacts(ctx context.Context, narrativeID string) ([]*output.ArtifactMetadata, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var metadataList []*output.ArtifactMetadata
	for _, artifact := range g.artifacts {
		if artifact.Metadata.NarrativeID == narrativeID {
			m := artifact.Metadata
			metadataList = append(metadataList, &m)
		}
	}
	return metadataList, nil
}
