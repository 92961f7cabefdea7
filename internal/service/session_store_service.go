package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Namespace identifies the site a session profile belongs to. The set is
// closed: new platforms get a new constant, not a free-form string.
type Namespace string

const (
	NamespaceInstagram Namespace = "insta"
	NamespaceYoutube   Namespace = "ytb"
	NamespaceCoupang   Namespace = "coupang"
	NamespaceNaver     Namespace = "naver"
)

// ObjectStore is the durable storage port for session profiles. The S3
// implementation backs production; tests use an in-memory fake.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
}

// SessionStoreService syncs a user's browser profile directory between durable
// object storage and an ephemeral local working copy. Storage-backend errors
// are logged and swallowed: losing session continuity degrades a run to a
// fresh login, while aborting would fail the whole posting job.
type SessionStoreService struct {
	store   ObjectStore
	baseDir string
}

func NewSessionStoreService(store ObjectStore, baseDir string) *SessionStoreService {
	return &SessionStoreService{store: store, baseDir: baseDir}
}

func userDataDirPrefix(username string) string {
	return fmt.Sprintf("%s-user-data-dir/", username)
}

// LocalDir returns the working-copy path for one (namespace, username) pair.
func (s *SessionStoreService) LocalDir(ns Namespace, username string) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s-%s-data-dir", ns, username))
}

// Fetch downloads every object under the user's profile prefix into a local
// directory, recreating the relative path hierarchy. A missing remote prefix
// yields an empty directory, not an error.
func (s *SessionStoreService) Fetch(ctx context.Context, ns Namespace, username string) string {
	localDir := s.LocalDir(ns, username)
	slog.Info("fetching session profile", "dir", localDir)

	if err := os.MkdirAll(localDir, 0o755); err != nil {
		slog.Info(err.Error())
		return localDir
	}

	prefix := userDataDirPrefix(username)
	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		slog.Info(err.Error())
		return localDir
	}

	for _, key := range keys {
		if strings.HasSuffix(key, "/") {
			continue
		}

		filePath := filepath.Join(localDir, strings.TrimPrefix(key, prefix))
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			slog.Info(err.Error())
			continue
		}

		body, err := s.store.Get(ctx, key)
		if err != nil {
			slog.Info(err.Error())
			continue
		}
		if err := os.WriteFile(filePath, body, 0o644); err != nil {
			slog.Info(err.Error())
		}
	}

	return localDir
}

// Persist uploads every file under localDir back under the user's profile
// prefix, preserving relative paths. Directories are implied by key prefixes
// and never uploaded as objects.
func (s *SessionStoreService) Persist(ctx context.Context, localDir, username string) {
	prefix := userDataDirPrefix(username)

	err := filepath.Walk(localDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Info(err.Error())
			return nil
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			slog.Info(err.Error())
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			slog.Info(err.Error())
			return nil
		}

		key := prefix + filepath.ToSlash(rel)
		if err := s.store.Put(ctx, key, body); err != nil {
			slog.Info(err.Error())
		}
		return nil
	})
	if err != nil {
		slog.Info(err.Error())
	}
}

// Discard removes the local working copy. Safe to call after a partial
// fetch; failures are logged only since no remediation is possible.
func (s *SessionStoreService) Discard(localDir string) {
	if err := os.RemoveAll(localDir); err != nil {
		slog.Info(err.Error())
	}
}
