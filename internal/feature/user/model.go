package user

import (
	"time"

	"gorm.io/gorm"

	"users-api/internal/domain"
	"users-api/pkg/utils"
)

type UserModel struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	Name     string `gorm:"size:128;not null;index"`
	Email    string `gorm:"uniqueIndex;size:191;not null"`
	Age      int    `gorm:"not null"`
	IsActive bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

// BeforeCreate 未指定 ID 时生成 UUID
func (m *UserModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = utils.NewID()
	}
	return nil
}

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		Age:      m.Age,
		IsActive: m.IsActive,
	}
}

func FromDomain(u *domain.User) *UserModel {
	return &UserModel{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Age:      u.Age,
		IsActive: u.IsActive,
	}
}

// PatchColumns 补丁 → 列名映射（只包含提供了的字段）
func PatchColumns(p domain.UserPatch) map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Age != nil {
		cols["age"] = *p.Age
	}
	if p.IsActive != nil {
		cols["is_active"] = *p.IsActive
	}
	return cols
}
