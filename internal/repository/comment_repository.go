package repository

import (
	"github.com/pressroom/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository 评论数据访问接口
type CommentRepository interface {
	Create(comment *db.Comment) error
	ListApproved(postID uint) ([]db.Comment, error)
	ListRecent(page, pageSize int) (Page[db.Comment], error)
	SetApproved(ids []uint, approved bool) (int64, error)
}

// GormCommentRepository GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论仓库
func NewCommentRepository(gdb *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: gdb}
}

// Create 创建评论
func (r *GormCommentRepository) Create(comment *db.Comment) error {
	return r.db.Omit(clause.Associations).Create(comment).Error
}

// ListApproved returns the visible comments of a post, oldest first.
func (r *GormCommentRepository) ListApproved(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := r.db.Where("post_id = ? AND approved = ?", postID, true).
		Preload("Author").
		Order("created_at asc, id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ListRecent 返回所有评论（含未审核），按创建时间倒序，供管理员审核。
func (r *GormCommentRepository) ListRecent(page, pageSize int) (Page[db.Comment], error) {
	countQuery := r.db.Model(&db.Comment{})
	dataQuery := r.db.Model(&db.Comment{}).
		Preload("Author").
		Preload("Post").
		Order("created_at desc, id desc")

	return paginate[db.Comment](countQuery, dataQuery, page, pageSize)
}

// SetApproved sets the approved flag on every listed comment, whatever its
// current value. It returns the number of comments matched.
func (r *GormCommentRepository) SetApproved(ids []uint, approved bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var matched int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Comment{}).Where("id IN ?", ids).Count(&matched).Error; err != nil {
			return err
		}
		return tx.Model(&db.Comment{}).
			Where("id IN ?", ids).
			UpdateColumn("approved", approved).Error
	})
	if err != nil {
		return 0, err
	}
	return matched, nil
}
