package repository

import (
	"errors"

	"github.com/pressroom/internal/db"
	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	FindByID(id uint) (*db.User, error)
	FindByUsername(username string) (*db.User, error)
	Create(user *db.User) error
	Delete(id uint) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(gdb *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: gdb}
}

// FindByID 根据 ID 获取用户，未找到时返回 nil。
func (r *GormUserRepository) FindByID(id uint) (*db.User, error) {
	var user db.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername matches usernames exactly.
func (r *GormUserRepository) FindByUsername(username string) (*db.User, error) {
	var user db.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *db.User) error {
	return r.db.Create(user).Error
}

// Delete removes the user, their comments, their posts and every comment
// on those posts.
func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&db.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("post_id IN (?)", ownPosts).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&db.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.User{}, id).Error
	})
}
