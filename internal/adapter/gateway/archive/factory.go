package archive

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

// Options selects and configures an archive backend
type Options struct {
	Type    string // local, s3, mock
	BaseDir string // local archive root
	Bucket  string
	Prefix  string
	Region  string
}

// NewArchiveGateway creates an archive gateway for the configured type
func NewArchiveGateway(ctx context.Context, opts Options) (output.ArchiveGateway, error) {
	switch opts.Type {
	case "local", "":
		return NewLocalArchiveGateway(afero.NewOsFs(), opts.BaseDir)

	case "s3":
		if opts.Bucket == "" {
			return nil, fmt.Errorf("s3 archive requires a bucket")
		}
		return NewS3ArchiveGateway(ctx, S3Config{
			Bucket: opts.Bucket,
			Prefix: opts.Prefix,
			Region: opts.Region,
		})

	case "mock":
		return NewMockArchiveGateway(), nil

	default:
		return nil, fmt.Errorf("unknown archive type: %s (supported: local, s3, mock)", opts.Type)
	}
}
