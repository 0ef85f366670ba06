package service

import (
	"strings"

	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/logger"
	"github.com/pressroom/internal/repository"
	"gorm.io/gorm"
)

// CommentService handles comment submission and moderation.
type CommentService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository

	PageSize int
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{
		posts:    repository.NewPostRepository(gdb),
		comments: repository.NewCommentRepository(gdb),
		PageSize: 20,
	}
}

// Create adds a comment by the caller to a published post. New comments wait
// for moderation.
func (s *CommentService) Create(identity auth.Identity, postSlug string, form CommentForm) (*db.Comment, error) {
	if !identity.Authenticated {
		return nil, ErrLoginRequired
	}

	post, err := s.posts.FindBySlug(postSlug, true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	form.Content = strings.TrimSpace(form.Content)
	if err := validateForm(&form).orNil(); err != nil {
		return nil, err
	}

	comment := db.Comment{
		PostID:   post.ID,
		AuthorID: identity.UserID,
		Content:  form.Content,
		Approved: false,
	}
	if err := s.comments.Create(&comment); err != nil {
		return nil, err
	}
	comment.Post = *post
	return &comment, nil
}

// ListRecent 返回待审核与已审核的评论，供管理员查看。
func (s *CommentService) ListRecent(identity auth.Identity, page int) (repository.Page[db.Comment], error) {
	if err := requireStaff(identity); err != nil {
		return repository.Page[db.Comment]{}, err
	}
	return s.comments.ListRecent(page, s.PageSize)
}

// Approve makes the comments visible. Repeating it is harmless.
func (s *CommentService) Approve(identity auth.Identity, ids []uint) (int64, error) {
	return s.setApproved(identity, ids, true)
}

// Disapprove hides the comments again.
func (s *CommentService) Disapprove(identity auth.Identity, ids []uint) (int64, error) {
	return s.setApproved(identity, ids, false)
}

func (s *CommentService) setApproved(identity auth.Identity, ids []uint, approved bool) (int64, error) {
	if err := requireStaff(identity); err != nil {
		return 0, err
	}

	matched, err := s.comments.SetApproved(ids, approved)
	if err != nil {
		return 0, err
	}
	logger.Infow("comments_moderated", "by", identity.Username, "approved", approved, "count", matched)
	return matched, nil
}
