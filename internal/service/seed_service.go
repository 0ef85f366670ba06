package service

import (
	"errors"

	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/repository"
	"github.com/pressroom/internal/slug"
	"gorm.io/gorm"
)

// SeedReport counts what a seed run created; existing rows are not counted.
type SeedReport struct {
	Categories int
	Posts      int
	Comments   int
	AdminNew   bool
}

type seedCategory struct {
	Name        string
	Description string
}

type seedPost struct {
	Title    string
	Category string
	Featured bool
	Content  string
}

type seedComment struct {
	PostTitle string
	Content   string
}

const (
	seedAdminUsername = "admin"
	seedAdminPassword = "admin123"
)

var seedCategories = []seedCategory{
	{Name: "Technology", Description: "Latest tech news and tutorials"},
	{Name: "Programming", Description: "Programming tutorials and tips"},
	{Name: "Web Development", Description: "Web development guides and resources"},
	{Name: "Django", Description: "Django framework tutorials and tips"},
	{Name: "Python", Description: "Python programming articles"},
}

var seedPosts = []seedPost{
	{
		Title:    "Getting Started with Django",
		Category: "Django",
		Featured: true,
		Content: `Django is a high-level Python web framework that encourages rapid development and clean, pragmatic design.

In this tutorial we cover the basics:
- Setting up your development environment
- Creating your first project
- Understanding the Model-View-Template pattern
- Working with models and databases

Let's get started with your first application.`,
	},
	{
		Title:    "Python Best Practices for Beginners",
		Category: "Python",
		Featured: true,
		Content: `Python is an excellent first language thanks to its simple syntax.

1. **Follow PEP 8**: use 4 spaces and meaningful names.
2. **Use virtual environments** to keep dependencies apart.
3. **Write docstrings** for functions and classes.
4. **Handle exceptions properly** and avoid bare except clauses.

Good code is code that others can easily understand and maintain.`,
	},
	{
		Title:    "Building Responsive Websites with Bootstrap",
		Category: "Web Development",
		Content: `Bootstrap is a front-end framework for responsive, mobile-first websites.

Key features:
- Responsive grid system
- Pre-built components
- Utility classes for spacing and typography

The grid is based on 12 columns, so layouts adapt to every screen size.`,
	},
	{
		Title:    "Understanding Django Models and Databases",
		Category: "Django",
		Content: `Models define the structure of your data and abstract database access.

1. **Fields** map to columns.
2. **Migrations** track changes to your models.
3. **QuerySets** are lazy and chainable.
4. **Relationships** use ForeignKey, ManyToManyField and OneToOneField.`,
	},
	{
		Title:    "The Future of Web Development",
		Category: "Technology",
		Featured: true,
		Content: `Web development keeps evolving.

1. **Progressive Web Apps** work offline and install like native apps.
2. **Serverless architecture** removes most server management.
3. **WebAssembly** brings near-native performance to browsers.

Staying current with these trends is part of the job.`,
	},
}

var seedComments = []seedComment{
	{PostTitle: "Getting Started with Django", Content: "Great tutorial! This really helped me understand the basics of Django."},
	{PostTitle: "Getting Started with Django", Content: "Thanks for sharing this. The MVT pattern explanation was very clear."},
	{PostTitle: "Python Best Practices for Beginners", Content: "Excellent article! I wish I had read this when I was starting with Python."},
}

// SeedService populates an empty blog with sample content.
type SeedService struct {
	db *gorm.DB
}

// NewSeedService creates a SeedService instance.
func NewSeedService(gdb *gorm.DB) *SeedService {
	return &SeedService{db: gdb}
}

// Run creates the sample admin, categories, published posts and approved
// comments. Rows that already exist are left untouched, so Run is repeatable.
// Categories match existing ones case-insensitively; taken slugs get a suffix.
func (s *SeedService) Run() (*SeedReport, error) {
	report := &SeedReport{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		categoryRepo := repository.NewCategoryRepository(tx)
		postRepo := repository.NewPostRepository(tx)
		commentRepo := repository.NewCommentRepository(tx)

		admin, created, err := s.ensureAdmin(tx)
		if err != nil {
			return err
		}
		report.AdminNew = created

		categories := make(map[string]uint, len(seedCategories))
		for _, item := range seedCategories {
			var category db.Category
			found, err := firstWhere(tx, &category, "LOWER(name) = LOWER(?)", item.Name)
			if err != nil {
				return err
			}
			if !found {
				category = db.Category{
					Name:        item.Name,
					Slug:        slug.WithFallback(item.Name, "category"),
					Description: item.Description,
				}
				if err := categoryRepo.Create(&category); err != nil {
					return err
				}
				report.Categories++
			}
			categories[item.Name] = category.ID
		}

		posts := make(map[string]uint, len(seedPosts))
		for _, item := range seedPosts {
			var post db.Post
			found, err := firstWhere(tx, &post, "title = ?", item.Title)
			if err != nil {
				return err
			}
			if found {
				posts[item.Title] = post.ID
				continue
			}

			categoryID := categories[item.Category]
			post = db.Post{
				Title:      item.Title,
				Slug:       slug.WithFallback(item.Title, "post"),
				Content:    item.Content,
				AuthorID:   admin.ID,
				CategoryID: &categoryID,
				Published:  true,
				Featured:   item.Featured,
			}
			if err := postRepo.Create(&post); err != nil {
				return err
			}
			posts[item.Title] = post.ID
			report.Posts++
		}

		for _, item := range seedComments {
			postID, ok := posts[item.PostTitle]
			if !ok {
				continue
			}
			var comment db.Comment
			found, err := firstWhere(tx, &comment, "post_id = ? AND author_id = ? AND content = ?", postID, admin.ID, item.Content)
			if err != nil {
				return err
			}
			if found {
				continue
			}
			comment = db.Comment{PostID: postID, AuthorID: admin.ID, Content: item.Content, Approved: true}
			if err := commentRepo.Create(&comment); err != nil {
				return err
			}
			report.Comments++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *SeedService) ensureAdmin(tx *gorm.DB) (*db.User, bool, error) {
	var existing db.User
	found, err := firstWhere(tx, &existing, "username = ?", seedAdminUsername)
	if err != nil {
		return nil, false, err
	}
	if found {
		return &existing, false, nil
	}

	admin, err := db.EnsureUser(tx, seedAdminUsername, seedAdminPassword, true)
	if err != nil {
		return nil, false, err
	}
	return admin, true, nil
}

func firstWhere(tx *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := tx.Where(query, args...).First(dest).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}
