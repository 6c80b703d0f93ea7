package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 사용자 권한 타입

const (
	RoleUser  UserRole = "user"  // 일반 사용자 권한
	RoleAdmin UserRole = "admin" // 관리자 권한
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                        // 사용자 ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`           // 이메일
	PasswordHash string         `gorm:"not null" json:"-"`                           // 비밀번호 해시
	Name         string         `gorm:"not null" json:"name"`                        // 이름
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"` // 권한
	CreatedAt    time.Time      `json:"created_at"`                                  // 생성 시각
	UpdatedAt    time.Time      `json:"updated_at"`                                  // 수정 시각
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                              // 삭제 시각(소프트 삭제)

	// 찜한 매장 ID 집합 (hearts 조인 테이블에서 적재, 중복 없음/순서 무관)
	Hearts []uint `gorm:"-" json:"hearts"`

	Stores []Store `gorm:"foreignKey:AuthorID" json:"stores,omitempty"` // 등록한 매장 목록
}

func (User) TableName() string {
	return "users"
}

// Heart 사용자-매장 찜 관계 (집합 멤버십)
// (user_id, store_id) 유니크 인덱스가 집합 의미를 보장함
type Heart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID  uint `gorm:"not null;index:idx_user_store_heart,unique" json:"user_id"`  // 사용자 ID
	StoreID uint `gorm:"not null;index:idx_user_store_heart,unique" json:"store_id"` // 매장 ID

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Store Store `gorm:"foreignKey:StoreID" json:"-"`
}

func (Heart) TableName() string {
	return "hearts"
}
