package utils

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	storage "github.com/supabase-community/storage-go"
)

const publicObjectPrefix = "/storage/v1/object/public/"

// SupabaseUploader puts report images into one Supabase Storage bucket.
type SupabaseUploader struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

func NewSupabaseUploader(supabaseURL, supabaseKey, bucket string) *SupabaseUploader {
	baseURL := strings.TrimRight(supabaseURL, "/")
	return &SupabaseUploader{
		client:  storage.NewClient(baseURL+"/storage/v1", supabaseKey, nil),
		baseURL: baseURL,
		bucket:  bucket,
	}
}

// ObjectPath builds images/<uuid>-<slug><ext> so names never collide and stay
// URL safe.
func ObjectPath(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("images/%s-%s%s", uuid.NewString(), base, ext)
}

// PublicURL: <SUPABASE_URL>/storage/v1/object/public/<bucket>/<path>
func (u *SupabaseUploader) PublicURL(objectPath string) string {
	return u.baseURL + publicObjectPrefix + u.bucket + "/" + objectPath
}

// Upload stores body and returns its public URL.
func (u *SupabaseUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	objectPath := ObjectPath(filename)
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := u.client.UploadFile(u.bucket, objectPath, body, options); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}
	return u.PublicURL(objectPath), nil
}

// Delete removes the object behind a public URL produced by Upload. URLs that
// point at another host or bucket are rejected.
func (u *SupabaseUploader) Delete(ctx context.Context, publicURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	objectPath, err := u.objectPathFromURL(publicURL)
	if err != nil {
		return err
	}

	if _, err := u.client.RemoveFile(u.bucket, []string{objectPath}); err != nil {
		return fmt.Errorf("remove %s: %w", objectPath, err)
	}
	return nil
}

func (u *SupabaseUploader) objectPathFromURL(publicURL string) (string, error) {
	prefix := u.baseURL + publicObjectPrefix + u.bucket + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", BadRequest("URL ảnh không thuộc kho lưu trữ của hệ thống.")
	}

	object := strings.TrimPrefix(publicURL, prefix)
	if i := strings.IndexAny(object, "?#"); i != -1 {
		object = object[:i]
	}
	if unescaped, err := url.PathUnescape(object); err == nil {
		object = unescaped
	}
	if object == "" || strings.Contains(object, "..") {
		return "", BadRequest("URL ảnh không hợp lệ.")
	}
	return object, nil
}
