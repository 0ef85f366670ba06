package service

import (
	"strconv"
	"strings"
)

// PostForm 文章表单
type PostForm struct {
	Title     string `form:"title" validate:"required,max=200"`
	Content   string `form:"content" validate:"required"`
	Category  string `form:"category"`
	Published bool   `form:"published"`
	Featured  bool   `form:"featured"`
}

func (f *PostForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
	f.Category = strings.TrimSpace(f.Category)
}

// categoryID parses the selected category; an empty choice means none.
func (f PostForm) categoryID() (*uint, bool) {
	if f.Category == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(f.Category, 10, 64)
	if err != nil || id == 0 {
		return nil, false
	}
	value := uint(id)
	return &value, true
}

// CommentForm 评论表单
type CommentForm struct {
	Content string `form:"content" validate:"required,max=5000"`
}

// CategoryForm 分类表单
type CategoryForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description" validate:"max=2000"`
}

// RegisterForm 注册表单
type RegisterForm struct {
	Username        string `form:"username" validate:"required,max=150,username"`
	Password        string `form:"password" validate:"required,min=8"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

// LoginForm 登录表单
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}
