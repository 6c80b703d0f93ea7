package model

import (
	"time"

	"gorm.io/gorm"
)

// Review 매장 리뷰 모델
// 랭킹 집계에서 평점만 읽기 전용으로 소비됨
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StoreID  uint   `gorm:"not null;index" json:"store_id"`                 // 매장 ID
	Store    Store  `gorm:"foreignKey:StoreID" json:"store,omitempty"`      // 매장 정보
	AuthorID uint   `gorm:"not null;index" json:"author_id"`                // 작성자 ID
	Author   User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`    // 작성자 정보
	Rating   int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"` // 평점 (1-5)
	Text     string `gorm:"type:text" json:"text"`                          // 리뷰 내용
}

func (Review) TableName() string {
	return "reviews"
}
