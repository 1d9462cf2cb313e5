package output

import (
	"context"
	"time"
)

// ArchiveGateway is the interface for exporting narrative artifacts.
// Supports both local filesystem and cloud storage (S3).
type ArchiveGateway interface {
	// SaveArtifact persists a narrative artifact
	SaveArtifact(ctx context.Context, req SaveArtifactRequest) (*ArtifactMetadata, error)

	// LoadArtifact retrieves an archived artifact by key
	LoadArtifact(ctx context.Context, key string) (*Artifact, error)

	// ListArtifacts lists artifacts archived for a narrative
	ListArtifacts(ctx context.Context, narrativeID string) ([]*ArtifactMetadata, error)
}

// SaveArtifactRequest represents a request to archive an artifact
type SaveArtifactRequest struct {
	NarrativeID string            // Associated narrative ID
	Name        string            // Artifact file name (e.g., "era-narrative.md")
	Content     []byte            // Artifact content
	ContentType string            // MIME type (optional)
	Metadata    map[string]string // Additional metadata
}

// Artifact represents an archived artifact
type Artifact struct {
	Key      string
	Content  []byte
	Metadata ArtifactMetadata
}

// ArtifactMetadata contains information about an archived artifact
type ArtifactMetadata struct {
	Key         string // Storage key (e.g., s3://bucket/narratives/<id>/era-narrative.md)
	NarrativeID string
	ContentType string
	Size        int64
	ArchivedAt  time.Time
	Metadata    map[string]string
}
