package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jyhwang/matzip-backend/pkg/logger"
)

// LocalStorage 로컬 디스크 기반 사진 저장소 (개발/테스트용)
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Save(_ context.Context, filename string, data []byte) error {
	path := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("Failed to write photo to disk", err, map[string]interface{}{
			"path": path,
		})
		return err
	}

	logger.Debug("Photo written to disk", map[string]interface{}{
		"path": path,
		"size": len(data),
	})
	return nil
}

func (s *LocalStorage) Read(_ context.Context, filename string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filepath.Base(filename)))
}

func (s *LocalStorage) Delete(_ context.Context, filename string) error {
	path := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Error("Failed to delete photo from disk", err, map[string]interface{}{
			"path": path,
		})
		return err
	}
	return nil
}

// FileURL 로컬 파일은 정적 라우트(/uploads)로 서빙됨
func (s *LocalStorage) FileURL(filename string) string {
	return "/uploads/" + filepath.Base(filename)
}

func (s *LocalStorage) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
