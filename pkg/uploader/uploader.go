// Package uploader syncs a local viewers directory to an S3-compatible
// bucket (Cloudflare R2 in production), assigning content types and cache
// headers per file kind.
package uploader

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/karospace/viewerkit/pkg/layout"
)

// extensionContentTypes overrides mime guessing for the file kinds a viewer
// package actually contains.
var extensionContentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".txt":  "text/plain; charset=utf-8",
}

// immutableExtensions get a year-long immutable cache policy; chunk and
// asset files never change in place, only HTML entry points do.
var immutableExtensions = map[string]struct{}{
	".json": {}, ".txt": {}, ".js": {}, ".css": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".svg": {},
}

// Config holds bucket access and addressing for one sync.
type Config struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicHost string
	Prefix     string
	UseSSL     bool
}

// LoadConfigFromEnv reads R2 credentials from the environment, honoring a
// local .env file if present.
func LoadConfigFromEnv() (*Config, error) {
	_ = godotenv.Load()

	requireEnv := func(name string) (string, error) {
		value := strings.TrimSpace(os.Getenv(name))
		if value == "" {
			return "", fmt.Errorf("missing required environment variable: %s", name)
		}
		return value, nil
	}

	accessKey, err := requireEnv("R2_ACCESS_KEY_ID")
	if err != nil {
		return nil, err
	}
	secretKey, err := requireEnv("R2_SECRET_ACCESS_KEY")
	if err != nil {
		return nil, err
	}
	accountID, err := requireEnv("R2_ACCOUNT_ID")
	if err != nil {
		return nil, err
	}
	bucket, err := requireEnv("R2_BUCKET")
	if err != nil {
		return nil, err
	}
	publicHost, err := requireEnv("R2_PUBLIC_HOST")
	if err != nil {
		return nil, err
	}

	prefix := strings.TrimSpace(os.Getenv("R2_PREFIX"))
	if prefix == "" {
		prefix = "viewers"
	}

	return &Config{
		Endpoint:   accountID + ".r2.cloudflarestorage.com",
		AccessKey:  accessKey,
		SecretKey:  secretKey,
		Bucket:     bucket,
		PublicHost: normalizePublicBase(publicHost),
		Prefix:     prefix,
		UseSSL:     true,
	}, nil
}

func normalizePublicBase(host string) string {
	cleaned := strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.HasPrefix(cleaned, "http://") || strings.HasPrefix(cleaned, "https://") {
		return cleaned
	}
	return "https://" + cleaned
}

// ContentTypeFor returns the content type uploaded with a file.
func ContentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := extensionContentTypes[ext]; ok {
		return ct
	}
	if guessed := mime.TypeByExtension(ext); guessed != "" {
		return guessed
	}
	return "application/octet-stream"
}

// CacheControlFor returns the cache policy uploaded with a file. HTML entry
// points revalidate quickly, data and asset files are immutable.
func CacheControlFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" {
		return "public, max-age=300, stale-while-revalidate=86400"
	}
	if _, ok := immutableExtensions[ext]; ok {
		return "public, max-age=31536000, immutable"
	}
	return "public, max-age=86400"
}

// BuildKey maps a local file under root to its object key.
func BuildKey(prefix, root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("path %s is not under %s: %w", path, root, err)
	}
	key := filepath.ToSlash(rel)

	cleanedPrefix := strings.Trim(prefix, "/ ")
	if cleanedPrefix == "" {
		return key, nil
	}
	return cleanedPrefix + "/" + key, nil
}

// Plan is one planned object upload.
type Plan struct {
	LocalPath    string
	Key          string
	ContentType  string
	CacheControl string
	SizeBytes    int64
}

// PlanDir walks a viewers directory and plans the upload of every file,
// skipping dotfiles, dot-directories, and local backups.
func PlanDir(root, prefix string) ([]Plan, error) {
	var plans []Plan

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || name == layout.BackupsDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		key, err := BuildKey(prefix, root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("error getting file stats for %s: %w", path, err)
		}

		plans = append(plans, Plan{
			LocalPath:    path,
			Key:          key,
			ContentType:  ContentTypeFor(path),
			CacheControl: CacheControlFor(path),
			SizeBytes:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", root, err)
	}

	sort.Slice(plans, func(i, j int) bool { return plans[i].Key < plans[j].Key })
	return plans, nil
}

// Uploader executes upload plans against one bucket.
type Uploader struct {
	client *minio.Client
	cfg    *Config
}

// New builds an S3 client for the configured endpoint.
func New(cfg *Config) (*Uploader, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &Uploader{client: client, cfg: cfg}, nil
}

// Upload sends one planned object.
func (u *Uploader) Upload(ctx context.Context, plan Plan) error {
	_, err := u.client.FPutObject(ctx, u.cfg.Bucket, plan.Key, plan.LocalPath, minio.PutObjectOptions{
		ContentType:  plan.ContentType,
		CacheControl: plan.CacheControl,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", plan.Key, err)
	}
	return nil
}

// PublicURL returns the public address of an uploaded key.
func (u *Uploader) PublicURL(key string) string {
	return u.cfg.PublicHost + "/" + strings.TrimLeft(key, "/")
}
