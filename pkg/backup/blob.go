package backup

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Azure/azure-storage-blob-go/azblob"
)

// BlobSink uploads backups to an Azure Blob Storage container, keeping an
// off-host copy of every configuration the tool replaces.
type BlobSink struct {
	Container azblob.ContainerURL
}

// NewBlobSink builds a sink for the named container on the given storage
// account.
func NewBlobSink(accountName, accountKey, containerName string) (*BlobSink, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage credentials: %v", err)
	}

	pipeline := azblob.NewPipeline(credential, azblob.PipelineOptions{})

	serviceURL, err := url.Parse(fmt.Sprintf("https://%s.blob.core.windows.net/", accountName))
	if err != nil {
		return nil, fmt.Errorf("failed to parse service URL: %v", err)
	}

	service := azblob.NewServiceURL(*serviceURL, pipeline)
	return &BlobSink{Container: service.NewContainerURL(containerName)}, nil
}

// Store uploads the payload as a block blob named after the backup.
func (s *BlobSink) Store(ctx context.Context, name string, data []byte) error {
	blobURL := s.Container.NewBlockBlobURL(name)
	_, err := blobURL.Upload(
		ctx,
		bytes.NewReader(data),
		azblob.BlobHTTPHeaders{ContentType: "text/plain"},
		azblob.Metadata{
			"created": time.Now().UTC().Format(time.RFC3339),
		},
		azblob.BlobAccessConditions{},
		azblob.DefaultAccessTier,
		azblob.BlobTagsMap{},
		azblob.ClientProvidedKeyOptions{},
		azblob.ImmutabilityPolicyOptions{},
	)
	if err != nil {
		return fmt.Errorf("failed to upload backup %s: %v", name, err)
	}
	return nil
}
