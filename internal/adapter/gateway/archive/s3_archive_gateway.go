package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

// S3ArchiveGateway implements ArchiveGateway on AWS S3.
// Key structure: <prefix>/narratives/<narrativeID>/<name> plus a
// <name>.meta.json sidecar object.
type S3ArchiveGateway struct {
	client S3API
	bucket string
	prefix string
}

// S3Config holds S3 archive gateway configuration
type S3Config struct {
	Bucket string
	Prefix string
	Region string
}

// NewS3ArchiveGateway creates an S3-backed archive gateway using the
// default AWS credential chain
func NewS3ArchiveGateway(ctx context.Context, cfg S3Config) (*S3ArchiveGateway, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}

	return &S3ArchiveGateway{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// NewS3ArchiveGatewayWithClient creates an S3 archive gateway with a
// custom client, primarily for tests
func NewS3ArchiveGatewayWithClient(client S3API, bucket, prefix string) *S3ArchiveGateway {
	return &S3ArchiveGateway{client: client, bucket: bucket, prefix: prefix}
}

// SaveArtifact uploads an artifact and its metadata sidecar
func (g *S3ArchiveGateway) SaveArtifact(ctx context.Context, req output.SaveArtifactRequest) (*output.ArtifactMetadata, error) {
	contentKey := g.buildKey("narratives", req.NarrativeID, req.Name)

	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(contentKey),
		Body:        bytes.NewReader(req.Content),
		ContentType: aws.String(req.ContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("upload to S3: %w", err)
	}

	metadata := output.ArtifactMetadata{
		Key:         fmt.Sprintf("s3://%s/%s", g.bucket, contentKey),
		NarrativeID: req.NarrativeID,
		ContentType: req.ContentType,
		Size:        int64(len(req.Content)),
		ArchivedAt:  time.Now().UTC(),
		Metadata:    req.Metadata,
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(contentKey + ".meta.json"),
		Body:        bytes.NewReader(metadataJSON),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("upload metadata to S3: %w", err)
	}

	return &metadata, nil
}

// LoadArtifact downloads an artifact by key. Accepts both bare object
// keys and s3:// URLs produced by SaveArtifact.
func (g *S3ArchiveGateway) LoadArtifact(ctx context.Context, key string) (*output.Artifact, error) {
	objectKey := strings.TrimPrefix(key, fmt.Sprintf("s3://%s/", g.bucket))

	contentObj, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("download from S3: %w", err)
	}
	defer contentObj.Body.Close()

	content, err := io.ReadAll(contentObj.Body)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	artifact := &output.Artifact{Key: key, Content: content}

	metadataObj, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(objectKey + ".meta.json"),
	})
	if err == nil {
		metadataJSON, readErr := io.ReadAll(metadataObj.Body)
		metadataObj.Body.Close()
		if readErr == nil {
			_ = json.Unmarshal(metadataJSON, &artifact.Metadata)
		}
	}

	return artifact, nil
}

// ListArtifacts lists artifacts archived for a narrative
func (g *S3ArchiveGateway) ListArtifacts(ctx context.Context, narrativeID string) ([]*output.ArtifactMetadata, error) {
	prefix := g.buildKey("narratives", narrativeID) + "/"

	listOutput, err := g.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(g.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("list S3 objects: %w", err)
	}

	var metadataList []*output.ArtifactMetadata
	for _, obj := range listOutput.Contents {
		key := aws.ToString(obj.Key)
		if !strings.HasSuffix(key, ".meta.json") {
			continue
		}

		metadataObj, err := g.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(g.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			continue
		}

		metadataJSON, err := io.ReadAll(metadataObj.Body)
		metadataObj.Body.Close()
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

// buildKey builds an S3 key with the configured prefix
func (g *S3ArchiveGateway) buildKey(parts ...string) string {
	if g.prefix != "" {
		parts = append([]string{g.prefix}, parts...)
	}
	return strings.Join(parts, "/")
}
