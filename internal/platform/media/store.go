package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/codeforma/codeforma-backend/internal/platform/envutil"
	"github.com/codeforma/codeforma-backend/internal/platform/logger"
)

// Category partitions stored objects by purpose. Each category maps to a
// subdirectory under the media root and a URL prefix under /media.
type Category string

const (
	CategoryAvatar      Category = "avatars"
	CategoryCertificate Category = "certificates"
	CategoryProject     Category = "projects"
)

// Store persists generated media on the local filesystem and serves it back
// through the router's /media static mount.
type Store interface {
	Save(ctx context.Context, category Category, key string, r io.Reader) error
	Delete(ctx context.Context, category Category, key string) error
	PublicURL(category Category, key string) string
	Root() string
}

type store struct {
	log     *logger.Logger
	root    string
	baseURL string
}

func NewFromEnv(log *logger.Logger) (Store, error) {
	root := envutil.String("MEDIA_ROOT", "./media")
	baseURL := strings.TrimRight(envutil.String("MEDIA_BASE_URL", "/media"), "/")
	return New(log, root, baseURL)
}

func New(log *logger.Logger, root, baseURL string) (Store, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("media root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &store{
		log:     log.With("client", "MediaStore"),
		root:    abs,
		baseURL: baseURL,
	}, nil
}

func (s *store) Save(ctx context.Context, category Category, key string, r io.Reader) error {
	path, err := s.objectPath(category, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}

	// Write to a temp file first so a failed write never leaves a
	// half-written object at the public path.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp media file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write media file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close media file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("publish media file: %w", err)
	}
	return nil
}

func (s *store) Delete(ctx context.Context, category Category, key string) error {
	path, err := s.objectPath(category, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}

func (s *store) PublicURL(category Category, key string) string {
	return s.baseURL + "/" + string(category) + "/" + strings.TrimLeft(key, "/")
}

func (s *store) Root() string { return s.root }

func (s *store) objectPath(category Category, key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("media key required")
	}
	path := filepath.Join(s.root, string(category), filepath.FromSlash(key))
	// Keys are server-generated, but reject traversal anyway.
	if !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("media key %q escapes root", key)
	}
	return path, nil
}
