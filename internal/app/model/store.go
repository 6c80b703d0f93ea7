package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// StringArray는 TEXT/JSON 컬럼에 저장되는 문자열 배열 커스텀 타입
type StringArray []string

// Value는 database/sql/driver.Valuer 인터페이스 구현
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan은 database/sql.Scanner 인터페이스 구현
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("failed to scan StringArray")
	}
}

// GeometryPoint 매장 위치에 허용되는 유일한 지오메트리 타입
const GeometryPoint = "Point"

// Location GeoJSON Point 형태의 매장 위치
// coordinates는 [경도, 위도] 순서
type Location struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewLocation(lng, lat float64) *Location {
	return &Location{
		Type:        GeometryPoint,
		Coordinates: [2]float64{lng, lat},
	}
}

func (l Location) Lng() float64 { return l.Coordinates[0] }
func (l Location) Lat() float64 { return l.Coordinates[1] }

// Valid는 좌표가 유한하고 유효 범위 안에 있는지 확인
func (l Location) Valid() bool {
	lng, lat := l.Lng(), l.Lat()
	if math.IsNaN(lng) || math.IsInf(lng, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return false
	}
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// Value는 database/sql/driver.Valuer 인터페이스 구현
func (l Location) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan은 database/sql.Scanner 인터페이스 구현
func (l *Location) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("failed to scan Location")
	}
}

type Store struct {
	ID          uint        `gorm:"primarykey" json:"id"`                // 고유 매장 ID
	AuthorID    uint        `gorm:"not null;index" json:"author_id"`     // 등록자 ID (생성 후 불변)
	Author      User        `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"author,omitempty"`
	Name        string      `gorm:"not null" json:"name"`                // 매장명
	Slug        string      `gorm:"uniqueIndex" json:"slug"`             // URL용 고유 식별자
	Description string      `gorm:"type:text" json:"description"`        // 매장 소개
	Tags        StringArray `gorm:"type:text" json:"tags"`               // 태그 목록 (순서 무관)
	Location    *Location   `gorm:"type:text" json:"location,omitempty"` // 위치 (항상 Point)
	Photo       string      `json:"photo"`                               // 업로드된 사진 파일명
	PhotoBlur   string      `json:"photo_blur,omitempty"`                // 사진 blurhash 플레이스홀더

	// 매장 리뷰 (역방향 관계, 랭킹 집계에서 읽기 전용으로 소비)
	Reviews []Review `gorm:"foreignKey:StoreID" json:"reviews,omitempty"`

	CreatedAt time.Time      `json:"created_at"`     // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"`     // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // 삭제 시각(소프트 삭제)
}

func (Store) TableName() string {
	return "stores"
}

// generateSlug는 매장명으로 URL용 slug를 생성합니다
func generateSlug(name string) string {
	slug := strings.ToLower(name)

	// 특수문자 제거 (한글, 영문, 숫자, 하이픈만 허용)
	reg := regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slug = reg.ReplaceAllString(slug, "-")

	// 연속된 하이픈을 하나로
	reg = regexp.MustCompile(`-+`)
	slug = reg.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

// BeforeCreate는 매장 생성 전에 slug를 자동 생성합니다
// 중복되는 slug는 숫자 접미사(-2, -3, ...)로 해소
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.Slug == "" {
		baseSlug := generateSlug(s.Name)
		slug := baseSlug

		counter := 1
		for {
			var count int64
			if err := tx.Model(&Store{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
				return err
			}

			if count == 0 {
				break
			}

			counter++
			slug = fmt.Sprintf("%s-%d", baseSlug, counter)
		}

		s.Slug = slug
	}
	return nil
}

// BeforeUpdate는 매장명이 변경되면 slug를 재생성합니다
func (s *Store) BeforeUpdate(tx *gorm.DB) error {
	var oldStore Store
	if err := tx.Session(&gorm.Session{SkipHooks: true}).First(&oldStore, s.ID).Error; err != nil {
		return err
	}

	if s.Name != oldStore.Name {
		baseSlug := generateSlug(s.Name)
		slug := baseSlug

		// 중복 체크 (자기 자신은 제외)
		counter := 1
		for {
			var count int64
			if err := tx.Model(&Store{}).Where("slug = ? AND id != ?", slug, s.ID).Count(&count).Error; err != nil {
				return err
			}

			if count == 0 {
				break
			}

			counter++
			slug = fmt.Sprintf("%s-%d", baseSlug, counter)
		}

		s.Slug = slug
	}
	return nil
}

// BeforeSave는 위치의 지오메트리 타입을 무조건 Point로 고정합니다
// 호출자가 어떤 타입을 보내더라도 이 경로로는 Point만 저장됨
func (s *Store) BeforeSave(tx *gorm.DB) error {
	if s.Location != nil {
		s.Location.Type = GeometryPoint
	}
	return nil
}
