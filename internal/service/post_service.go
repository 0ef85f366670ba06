package service

import (
	"errors"

	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/repository"
	"github.com/pressroom/internal/slug"
	"gorm.io/gorm"
)

const (
	// FeaturedLimit 首页推荐文章数量
	FeaturedLimit = 3
	// RelatedLimit 详情页同分类文章数量
	RelatedLimit = 3
)

// PostService wraps post related operations and their access rules.
type PostService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	comments   repository.CommentRepository

	PageSize int
}

// PostDetail is everything the detail page shows for one post.
type PostDetail struct {
	Post     *db.Post
	Comments []db.Comment
	Related  []db.Post
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{
		posts:      repository.NewPostRepository(gdb),
		categories: repository.NewCategoryRepository(gdb),
		comments:   repository.NewCommentRepository(gdb),
		PageSize:   repository.DefaultPageSize,
	}
}

// ListPublished returns one page of published posts, filtered by search when
// it is not blank.
func (s *PostService) ListPublished(search string, page int) (repository.Page[db.Post], error) {
	return s.posts.ListPublished(repository.PostListFilter{
		Search:   search,
		Page:     page,
		PageSize: s.PageSize,
	})
}

// ListByCategory returns the category and one page of its published posts.
func (s *PostService) ListByCategory(categorySlug string, page int) (*db.Category, repository.Page[db.Post], error) {
	category, err := s.categories.FindBySlug(categorySlug)
	if err != nil {
		return nil, repository.Page[db.Post]{}, err
	}
	if category == nil {
		return nil, repository.Page[db.Post]{}, ErrCategoryNotFound
	}

	posts, err := s.posts.ListPublished(repository.PostListFilter{
		CategoryID: &category.ID,
		Page:       page,
		PageSize:   s.PageSize,
	})
	if err != nil {
		return nil, repository.Page[db.Post]{}, err
	}
	return category, posts, nil
}

// ListMine returns the caller's posts, drafts included.
func (s *PostService) ListMine(identity auth.Identity, page int) (repository.Page[db.Post], error) {
	if !identity.Authenticated {
		return repository.Page[db.Post]{}, ErrLoginRequired
	}
	return s.posts.ListByAuthor(identity.UserID, page, s.PageSize)
}

// Featured 返回首页推荐文章。
func (s *PostService) Featured() ([]db.Post, error) {
	return s.posts.ListFeatured(FeaturedLimit)
}

// View loads a published post for display and counts the view.
func (s *PostService) View(postSlug string) (*PostDetail, error) {
	return s.detail(postSlug, true)
}

// Detail loads a published post for display without counting a view.
func (s *PostService) Detail(postSlug string) (*PostDetail, error) {
	return s.detail(postSlug, false)
}

func (s *PostService) detail(postSlug string, countView bool) (*PostDetail, error) {
	post, err := s.posts.FindBySlug(postSlug, true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if countView {
		count, err := s.posts.IncrementViewCount(post.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPostNotFound
			}
			return nil, err
		}
		post.ViewCount = count
	}

	comments, err := s.comments.ListApproved(post.ID)
	if err != nil {
		return nil, err
	}

	related, err := s.posts.ListRelated(post, RelatedLimit)
	if err != nil {
		return nil, err
	}

	return &PostDetail{Post: post, Comments: comments, Related: related}, nil
}

// Create validates the form and stores a new post authored by the caller.
func (s *PostService) Create(identity auth.Identity, form PostForm) (*db.Post, error) {
	if !identity.Authenticated {
		return nil, ErrLoginRequired
	}

	categoryID, err := s.validatePost(&form)
	if err != nil {
		return nil, err
	}

	post := db.Post{
		Title:      form.Title,
		Slug:       slug.WithFallback(form.Title, "post"),
		Content:    form.Content,
		AuthorID:   identity.UserID,
		CategoryID: categoryID,
		Published:  form.Published,
		Featured:   form.Featured,
	}
	if err := s.posts.Create(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Editable loads any post by slug for its author. When the caller is not the
// author the post is still returned together with ErrNotAuthor.
func (s *PostService) Editable(identity auth.Identity, postSlug string) (*db.Post, error) {
	if !identity.Authenticated {
		return nil, ErrLoginRequired
	}

	post, err := s.posts.FindBySlug(postSlug, false)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if !identity.Owns(post.AuthorID) {
		return post, ErrNotAuthor
	}
	return post, nil
}

// Update applies the form to the caller's post. The slug never changes.
func (s *PostService) Update(identity auth.Identity, postSlug string, form PostForm) (*db.Post, error) {
	post, err := s.Editable(identity, postSlug)
	if err != nil {
		return post, err
	}

	categoryID, err := s.validatePost(&form)
	if err != nil {
		return post, err
	}

	post.Title = form.Title
	post.Content = form.Content
	post.CategoryID = categoryID
	post.Published = form.Published
	post.Featured = form.Featured
	if err := s.posts.Update(post); err != nil {
		return post, err
	}
	return post, nil
}

// Delete removes the caller's post and its comments.
func (s *PostService) Delete(identity auth.Identity, postSlug string) (*db.Post, error) {
	post, err := s.Editable(identity, postSlug)
	if err != nil {
		return post, err
	}
	if err := s.posts.Delete(post.ID); err != nil {
		return post, err
	}
	return post, nil
}

func (s *PostService) validatePost(form *PostForm) (*uint, error) {
	form.normalize()
	verr := validateForm(form)

	categoryID, ok := form.categoryID()
	if !ok {
		verr.Add("category", "Select a valid choice.")
	} else if categoryID != nil {
		category, err := s.categories.FindByID(*categoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			verr.Add("category", "Select a valid choice.")
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return categoryID, nil
}
