package repository

import (
	"errors"

	"github.com/pressroom/internal/db"
	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	List() ([]db.Category, error)
	FindByID(id uint) (*db.Category, error)
	FindBySlug(slug string) (*db.Category, error)
	NameExists(name string) (bool, error)
	Create(category *db.Category) error
	Delete(id uint) error
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(gdb *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: gdb}
}

// List returns all categories ordered by name.
func (r *GormCategoryRepository) List() ([]db.Category, error) {
	var categories []db.Category
	if err := r.db.Order("name asc").Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByID 根据 ID 获取分类，未找到时返回 nil。
func (r *GormCategoryRepository) FindByID(id uint) (*db.Category, error) {
	var category db.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// FindBySlug 根据 slug 获取分类，未找到时返回 nil。
func (r *GormCategoryRepository) FindBySlug(slugValue string) (*db.Category, error) {
	var category db.Category
	if err := r.db.Where("slug = ?", slugValue).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// NameExists compares names case-insensitively.
func (r *GormCategoryRepository) NameExists(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&db.Category{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the category, suffixing category.Slug when it is taken.
func (r *GormCategoryRepository) Create(category *db.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		free, err := freeSlug(tx, &db.Category{}, category.Slug)
		if err != nil {
			return err
		}
		category.Slug = free
		return tx.Create(category).Error
	})
}

// Delete 删除分类，并将其下文章的分类置空。
func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).
			Where("category_id = ?", id).
			UpdateColumn("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Category{}, id).Error
	})
}
