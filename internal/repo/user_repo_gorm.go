package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"users-api/internal/domain"
	"users-api/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

// Migrate 建表/补索引
func Migrate(db *gorm.DB) error { return db.AutoMigrate(&user.UserModel{}) }

// 插入顺序：同一时刻创建的按 id 兜底
const insertionOrder = "created_at ASC, id ASC"

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	m.IsActive = false // 创建时不允许指定，交给默认值
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return mapWriteErr("create user", err)
	}
	*u = *m.ToDomain()
	return nil
}

func (r *UserRepo) Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	var out *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m user.UserModel
		if err := tx.Take(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if cols := user.PatchColumns(p); len(cols) > 0 {
			if err := tx.Model(&m).Updates(cols).Error; err != nil {
				return err
			}
		}
		out = m.ToDomain()
		p.Apply(out)
		return nil
	})
	if err != nil {
		return nil, mapWriteErr("update user", err)
	}
	return out, nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return tx.Delete(&m).Error
	})
	if err != nil {
		return nil, mapWriteErr("delete user", err)
	}
	return m.ToDomain(), nil
}

// FindByID 查不到返回 (nil, nil)
func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).Take(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return m.ToDomain(), nil
}

// FindByName 重名时取最早创建的一条
func (r *UserRepo) FindByName(ctx context.Context, name string) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).Order(insertionOrder).Take(&m, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by name: %w", err)
	}
	return m.ToDomain(), nil
}

func (r *UserRepo) FindMany(ctx context.Context) ([]domain.User, error) {
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Order(insertionOrder).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return toDomainList(ms), nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&user.UserModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepo) Search(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	q := r.db.WithContext(ctx).Model(&user.UserModel{})
	if s := strings.TrimSpace(f.Q); s != "" {
		like := "%" + s + "%"
		q = q.Where("email LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var ms []user.UserModel
	if err := q.Order(insertionOrder).Limit(f.Limit).Offset(f.Offset).Find(&ms).Error; err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	return toDomainList(ms), total, nil
}

func toDomainList(ms []user.UserModel) []domain.User {
	out := make([]domain.User, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out
}

func mapWriteErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return err
	case isDupKey(err):
		return domain.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 驱动未实现 ErrorTranslator 时按报错文本兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
