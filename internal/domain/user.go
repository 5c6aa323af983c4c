package domain

import "context"

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	IsActive bool   `json:"isActive"`
}

// UserPatch 部分更新：nil 字段保持不变
type UserPatch struct {
	Name     *string
	Email    *string
	Age      *int
	IsActive *bool
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil && p.IsActive == nil
}

// Apply 把补丁写到 u 上（仅非 nil 字段）
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}

// UserFilter 管理端检索条件
type UserFilter struct {
	Q      string // name/email 模糊匹配
	Offset int
	Limit  int
}

// UserRepository 存储访问能力集；实现方不得泄漏具体驱动类型
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, id string, p UserPatch) (*User, error)
	Delete(ctx context.Context, id string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByName(ctx context.Context, name string) (*User, error)
	FindMany(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, f UserFilter) ([]User, int64, error)
}
