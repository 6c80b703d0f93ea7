package storage

import (
	"context"
)

// PhotoStorage 파일명으로 접근하는 내구성 있는 사진 저장소
// 제공(serving)은 외부(정적 서빙/CDN) 책임
type PhotoStorage interface {
	Save(ctx context.Context, filename string, data []byte) error
	Delete(ctx context.Context, filename string) error
	List(ctx context.Context) ([]string, error)
	// FileURL 저장된 파일에 접근 가능한 공개 URL
	FileURL(filename string) string
}
