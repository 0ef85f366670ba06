package service

import (
	"strings"

	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/repository"
	"github.com/pressroom/internal/slug"
	"gorm.io/gorm"
)

// CategoryService 分类业务
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{categories: repository.NewCategoryRepository(gdb)}
}

// List returns all categories ordered by name.
func (s *CategoryService) List() ([]db.Category, error) {
	return s.categories.List()
}

// Create stores a new category. Only staff may create categories.
func (s *CategoryService) Create(identity auth.Identity, form CategoryForm) (*db.Category, error) {
	if err := requireStaff(identity); err != nil {
		return nil, err
	}

	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)

	verr := validateForm(&form)
	if _, rejected := verr.Fields["name"]; !rejected {
		exists, err := s.categories.NameExists(form.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("name", "Category with this Name already exists.")
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	category := db.Category{
		Name:        form.Name,
		Slug:        slug.WithFallback(form.Name, "category"),
		Description: form.Description,
	}
	if err := s.categories.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category; its posts stay without a category.
func (s *CategoryService) Delete(identity auth.Identity, categorySlug string) (*db.Category, error) {
	if err := requireStaff(identity); err != nil {
		return nil, err
	}

	category, err := s.categories.FindBySlug(categorySlug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if err := s.categories.Delete(category.ID); err != nil {
		return nil, err
	}
	return category, nil
}

func requireStaff(identity auth.Identity) error {
	if !identity.Authenticated {
		return ErrLoginRequired
	}
	if !identity.IsStaff {
		return ErrNotStaff
	}
	return nil
}
