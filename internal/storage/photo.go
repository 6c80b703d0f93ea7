package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"strings"

	"github.com/bbrks/go-blurhash"
	"github.com/google/uuid"
	"github.com/jyhwang/matzip-backend/pkg/logger"
	"golang.org/x/image/draw"
)

var (
	ErrUnsupportedPhotoType = errors.New("JPEG 이미지만 업로드할 수 있습니다")
	ErrPhotoTooLarge        = errors.New("사진 용량이 허용치를 초과했습니다")
)

const photoMimeType = "image/jpeg"

// ProcessedPhoto 파이프라인 결과: 저장된 파일명 + blurhash 플레이스홀더
type ProcessedPhoto struct {
	Filename string
	URL      string
	BlurHash string
}

// PhotoProcessor 사진 업로드 파이프라인
// 검증 → 고유 파일명 생성 → 리사이즈 → 저장 순서로 처리함
type PhotoProcessor struct {
	storage      PhotoStorage
	maxWidth     int
	maxSizeBytes int64
}

func NewPhotoProcessor(storage PhotoStorage, maxWidth int, maxSizeBytes int64) *PhotoProcessor {
	return &PhotoProcessor{
		storage:      storage,
		maxWidth:     maxWidth,
		maxSizeBytes: maxSizeBytes,
	}
}

// ValidateUpload은 비동기 작업 전에 호출되는 동기 검증 단계.
// mime 타입과 용량만 확인하고 파일 내용은 읽지 않음
func (p *PhotoProcessor) ValidateUpload(file *multipart.FileHeader) error {
	if file == nil {
		return nil
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType != photoMimeType {
		logger.Warn("Rejected photo upload", map[string]interface{}{
			"mime_type": mimeType,
			"filename":  file.Filename,
		})
		return ErrUnsupportedPhotoType
	}

	if p.maxSizeBytes > 0 && file.Size > p.maxSizeBytes {
		return ErrPhotoTooLarge
	}

	return nil
}

// Process runs the full pipeline for an optional upload.
// 업로드가 없으면 (nil, nil)을 반환하고 호출 흐름은 그대로 진행됨.
// 저장 실패 시 에러를 반환해 바깥의 생성/수정 작업이 중단되도록 함
func (p *PhotoProcessor) Process(ctx context.Context, file *multipart.FileHeader) (*ProcessedPhoto, error) {
	if file == nil {
		return nil, nil
	}

	if err := p.ValidateUpload(file); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Warn("Failed to decode uploaded photo", map[string]interface{}{
			"filename": file.Filename,
			"error":    err.Error(),
		})
		return nil, ErrUnsupportedPhotoType
	}

	resized := p.resize(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode photo: %w", err)
	}

	// 확장자는 mime 타입에서 유도, 파일명은 충돌 없는 랜덤 UUID
	extension := strings.Split(photoMimeType, "/")[1]
	filename := fmt.Sprintf("%s.%s", uuid.New().String(), extension)

	if err := p.storage.Save(ctx, filename, buf.Bytes()); err != nil {
		return nil, err
	}

	hash, err := blurhash.Encode(4, 3, resized)
	if err != nil {
		// 플레이스홀더 생성 실패는 업로드 자체를 막지 않음
		logger.Warn("Failed to compute blurhash", map[string]interface{}{
			"filename": filename,
			"error":    err.Error(),
		})
		hash = ""
	}

	logger.Info("Photo processed", map[string]interface{}{
		"filename": filename,
		"size":     buf.Len(),
	})

	return &ProcessedPhoto{
		Filename: filename,
		URL:      p.storage.FileURL(filename),
		BlurHash: hash,
	}, nil
}

// resize caps the image width, scaling height proportionally.
// 원본보다 크게 키우지는 않음
func (p *PhotoProcessor) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= p.maxWidth {
		return img
	}

	dstWidth := p.maxWidth
	dstHeight := srcHeight * dstWidth / srcWidth
	if dstHeight < 1 {
		dstHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
