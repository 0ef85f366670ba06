package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	ListPublished(filter PostListFilter) (Page[db.Post], error)
	ListByAuthor(authorID uint, page, pageSize int) (Page[db.Post], error)
	ListFeatured(limit int) ([]db.Post, error)
	ListRelated(post *db.Post, limit int) ([]db.Post, error)
	FindBySlug(slug string, onlyPublished bool) (*db.Post, error)
	Create(post *db.Post) error
	Update(post *db.Post) error
	Delete(id uint) error
	IncrementViewCount(id uint) (uint64, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(gdb *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: gdb}
}

const postOrder = "posts.created_at desc, posts.id desc"

// ListPublished returns published posts, optionally narrowed by a search term
// (title, content or author username, case-insensitive) or a category.
func (r *GormPostRepository) ListPublished(filter PostListFilter) (Page[db.Post], error) {
	countQuery := r.publishedQuery(filter)
	dataQuery := r.publishedQuery(filter).
		Preload("Author").
		Preload("Category").
		Order(postOrder)

	return paginate[db.Post](countQuery, dataQuery, filter.Page, filter.PageSize)
}

func (r *GormPostRepository) publishedQuery(filter PostListFilter) *gorm.DB {
	query := r.db.Model(&db.Post{}).Where("posts.published = ?", true)

	if filter.CategoryID != nil {
		query = query.Where("posts.category_id = ?", *filter.CategoryID)
	}

	// SQLite LOWER folds ASCII letters only, so "école" does not match "ÉCOLE" there.
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := containsPattern(search)
		query = query.
			Joins("JOIN users ON users.id = posts.author_id").
			Where(`(LOWER(posts.title) LIKE ? ESCAPE '\' OR LOWER(posts.content) LIKE ? ESCAPE '\' OR LOWER(users.username) LIKE ? ESCAPE '\')`, like, like, like)
	}

	return query
}

// ListByAuthor 返回作者的全部文章（包括草稿），按创建时间倒序。
func (r *GormPostRepository) ListByAuthor(authorID uint, page, pageSize int) (Page[db.Post], error) {
	countQuery := r.db.Model(&db.Post{}).Where("posts.author_id = ?", authorID)
	dataQuery := r.db.Model(&db.Post{}).
		Where("posts.author_id = ?", authorID).
		Preload("Category").
		Order(postOrder)

	return paginate[db.Post](countQuery, dataQuery, page, pageSize)
}

// ListFeatured 返回推荐文章，按创建时间倒序。
func (r *GormPostRepository) ListFeatured(limit int) ([]db.Post, error) {
	var posts []db.Post
	if err := r.db.Where("published = ? AND featured = ?", true, true).
		Preload("Author").
		Order(postOrder).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListRelated returns other published posts of the same category. A post
// without a category has no related posts.
func (r *GormPostRepository) ListRelated(post *db.Post, limit int) ([]db.Post, error) {
	if post == nil || post.CategoryID == nil {
		return []db.Post{}, nil
	}

	var posts []db.Post
	if err := r.db.Where("published = ? AND category_id = ? AND id <> ?", true, *post.CategoryID, post.ID).
		Order(postOrder).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindBySlug 根据 slug 获取文章，未找到时返回 nil。
func (r *GormPostRepository) FindBySlug(slugValue string, onlyPublished bool) (*db.Post, error) {
	query := r.db.Preload("Author").Preload("Category").Where("slug = ?", slugValue)
	if onlyPublished {
		query = query.Where("published = ?", true)
	}

	var post db.Post
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts the post. post.Slug is used as the base and gets a numeric
// suffix when it is already taken.
func (r *GormPostRepository) Create(post *db.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		free, err := freeSlug(tx, &db.Post{}, post.Slug)
		if err != nil {
			return err
		}
		post.Slug = free
		post.ViewCount = 0
		return tx.Omit(clause.Associations).Create(post).Error
	})
}

// Update 仅更新可编辑字段；slug、作者与浏览量保持不变。
func (r *GormPostRepository) Update(post *db.Post) error {
	return r.db.Model(&db.Post{ID: post.ID}).
		Select("title", "content", "category_id", "published", "featured", "updated_at").
		Updates(map[string]interface{}{
			"title":       post.Title,
			"content":     post.Content,
			"category_id": post.CategoryID,
			"published":   post.Published,
			"featured":    post.Featured,
			"updated_at":  time.Now(),
		}).Error
}

// Delete removes a post together with its comments.
func (r *GormPostRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Post{}, id).Error
	})
}

// IncrementViewCount 原子地将浏览量加一，并返回更新后的值。
func (r *GormPostRepository) IncrementViewCount(id uint) (uint64, error) {
	var count uint64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&db.Post{}).
			Where("id = ?", id).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&db.Post{}).Select("view_count").Where("id = ?", id).Row().Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// freeSlug returns the first unused candidate for base in model's table.
func freeSlug(tx *gorm.DB, model interface{}, base string) (string, error) {
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.Candidate(base, n)
		var count int64
		if err := tx.Model(model).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", ErrSlugExhausted
}
