package helpers

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// profileImageCacheControl lets browsers keep an avatar for a day; a new
// upload always gets a new object name.
const profileImageCacheControl = "public, max-age=86400"

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// ProfileImagePath returns a fresh object name under profiles/<userID>/,
// keeping the lowercased extension of filename.
func ProfileImagePath(userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("profiles", userID, uuid.NewString()+ext)
}

// UploadProfileImage writes r to a new object for userID and returns its public URL.
func UploadProfileImage(ctx context.Context, client *storage.Client, bucket, userID, filename, contentType string, r io.Reader) (string, error) {
	objectPath := ProfileImagePath(userID, filename)
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = profileImageCacheControl
	wc.Metadata = map[string]string{"user_id": userID}
	wc.ChunkSize = 0 // avatars are small; single request upload
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
