package archive

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

// fakeS3Client implements S3API over an in-memory map
type fakeS3Client struct {
	objects map[string][]byte
}

func newFakeS3Client() *fakeS3Client {
	return &fakeS3Client{objects: make(map[string][]byte)}
}

func (c *fakeS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	c.objects[aws.ToString(params.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (c *fakeS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := c.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (c *fakeS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(params.Prefix)
	var contents []types.Object
	for key := range c.objects {
		if strings.HasPrefix(key, prefix) {
			contents = append(contents, types.Object{Key: aws.String(key)})
		}
	}
	return &s3.ListObjectsV2Output{Contents: contents}, nil
}

func TestS3ArchiveGateway_SaveAndLoad(t *testing.T) {
	client := newFakeS3Client()
	gateway := NewS3ArchiveGatewayWithClient(client, "test-bucket", "illuminator")
	ctx := context.Background()

	metadata, err := gateway.SaveArtifact(ctx, output.SaveArtifactRequest{
		NarrativeID: "nar-1",
		Name:        "era-narrative.md",
		Content:     []byte("archived prose"),
		ContentType: "text/markdown",
	})
	require.NoError(t, err)
	assert.Equal(t, "s3://test-bucket/illuminator/narratives/nar-1/era-narrative.md", metadata.Key)

	// Both the content object and the metadata sidecar exist
	assert.Contains(t, client.objects, "illuminator/narratives/nar-1/era-narrative.md")
	assert.Contains(t, client.objects, "illuminator/narratives/nar-1/era-narrative.md.meta.json")

	artifact, err := gateway.LoadArtifact(ctx, metadata.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("archived prose"), artifact.Content)
	assert.Equal(t, "nar-1", artifact.Metadata.NarrativeID)
}

func TestS3ArchiveGateway_ListArtifacts(t *testing.T) {
	client := newFakeS3Client()
	gateway := NewS3ArchiveGatewayWithClient(client, "test-bucket", "")
	ctx := context.Background()

	_, err := gateway.SaveArtifact(ctx, output.SaveArtifactRequest{
		NarrativeID: "nar-1", Name: "a.md", Content: []byte("a"),
	})
	require.NoError(t, err)
	_, err = gateway.SaveArtifact(ctx, output.SaveArtifactRequest{
		NarrativeID: "nar-1", Name: "b.md", Content: []byte("b"),
	})
	require.NoError(t, err)

	list, err := gateway.ListArtifacts(ctx, "nar-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	empty, err := gateway.ListArtifacts(ctx, "nar-9")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
