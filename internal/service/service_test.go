package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { sqlDB.Close() })
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func createIdentity(t *testing.T, gdb *gorm.DB, username string, staff bool) auth.Identity {
	t.Helper()
	user, err := db.EnsureUser(gdb, username, "password123", staff)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return auth.FromUser(user)
}

func createCategory(t *testing.T, gdb *gorm.DB, name string) *db.Category {
	t.Helper()
	staff := createIdentity(t, gdb, "category-admin", true)
	category, err := NewCategoryService(gdb).Create(staff, CategoryForm{Name: name})
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return category
}

func fieldError(t *testing.T, err error, field string) string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	message, ok := verr.Fields[field]
	if !ok {
		t.Fatalf("expected error on %s, got %v", field, verr.Fields)
	}
	return message
}

func TestPostServiceCreateAssignsAuthorAndSlug(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	alice := createIdentity(t, gdb, "alice", false)

	first, err := svc.Create(alice, PostForm{Title: "  Hello World  ", Content: "Body", Published: true})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if first.Slug != "hello-world" || first.Title != "Hello World" || first.AuthorID != alice.UserID {
		t.Fatalf("unexpected post: %+v", first)
	}
	if first.ViewCount != 0 || first.CategoryID != nil {
		t.Fatalf("expected fresh post without category, got %+v", first)
	}

	second, err := svc.Create(alice, PostForm{Title: "Hello, World!", Content: "Another"})
	if err != nil {
		t.Fatalf("create second post: %v", err)
	}
	if second.Slug != "hello-world-2" {
		t.Fatalf("expected suffixed slug, got %s", second.Slug)
	}

	symbols, err := svc.Create(alice, PostForm{Title: "!!!", Content: "x"})
	if err != nil {
		t.Fatalf("create symbol post: %v", err)
	}
	if symbols.Slug != "post" {
		t.Fatalf("expected fallback slug, got %s", symbols.Slug)
	}
}

func TestPostServiceCreateRejectsInvalidInput(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	alice := createIdentity(t, gdb, "alice", false)

	if _, err := svc.Create(auth.Anonymous(), PostForm{Title: "T", Content: "C"}); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected login required, got %v", err)
	}

	_, err := svc.Create(alice, PostForm{Title: "   ", Content: ""})
	fieldError(t, err, "title")
	fieldError(t, err, "content")

	_, err = svc.Create(alice, PostForm{Title: strings.Repeat("a", 201), Content: "C"})
	if msg := fieldError(t, err, "title"); !strings.Contains(msg, "200") {
		t.Fatalf("unexpected message: %s", msg)
	}

	_, err = svc.Create(alice, PostForm{Title: "T", Content: "C", Category: "999"})
	fieldError(t, err, "category")

	var count int64
	gdb.Model(&db.Post{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no posts stored, got %d", count)
	}
}

func TestPostServiceOnlyAuthorMayEditOrDelete(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	alice := createIdentity(t, gdb, "alice", false)
	bob := createIdentity(t, gdb, "bob", true)

	post, err := svc.Create(alice, PostForm{Title: "Mine", Content: "Original", Published: true})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	found, err := svc.Update(bob, post.Slug, PostForm{Title: "Hijacked", Content: "x"})
	if !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected not author, got %v", err)
	}
	if found == nil || found.Slug != post.Slug {
		t.Fatalf("expected post returned with the error")
	}
	if _, err := svc.Delete(bob, post.Slug); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected not author on delete, got %v", err)
	}

	var stored db.Post
	gdb.First(&stored, post.ID)
	if stored.Title != "Mine" || stored.Content != "Original" {
		t.Fatalf("post changed by non-author: %+v", stored)
	}

	updated, err := svc.Update(alice, post.Slug, PostForm{Title: "Renamed", Content: "Edited"})
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if updated.Slug != post.Slug || updated.Published {
		t.Fatalf("expected slug kept and post unpublished, got %+v", updated)
	}

	if _, err := svc.Delete(alice, post.Slug); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if _, err := svc.Editable(alice, post.Slug); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected deleted post to be gone, got %v", err)
	}
}

func TestPostServiceViewHidesDraftsAndCountsViews(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	alice := createIdentity(t, gdb, "alice", false)

	draft, err := svc.Create(alice, PostForm{Title: "Draft", Content: "WIP"})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := svc.View(draft.Slug); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected draft hidden from detail, got %v", err)
	}

	post, err := svc.Create(alice, PostForm{Title: "Live", Content: "Hello", Published: true})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	for i := 1; i <= 3; i++ {
		detail, err := svc.View(post.Slug)
		if err != nil {
			t.Fatalf("view post: %v", err)
		}
		if detail.Post.ViewCount != uint64(i) {
			t.Fatalf("expected view count %d, got %d", i, detail.Post.ViewCount)
		}
	}

	detail, err := svc.Detail(post.Slug)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Post.ViewCount != 3 {
		t.Fatalf("detail must not count a view, got %d", detail.Post.ViewCount)
	}
}

func TestPostServiceRelatedPostsShareCategory(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	alice := createIdentity(t, gdb, "alice", false)
	python := createCategory(t, gdb, "Python")
	golang := createCategory(t, gdb, "Go")

	pythonID := fmt.Sprint(python.ID)
	primary, err := svc.Create(alice, PostForm{Title: "Main", Content: "x", Category: pythonID, Published: true})
	if err != nil {
		t.Fatalf("create primary: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := svc.Create(alice, PostForm{Title: fmt.Sprintf("Sibling %d", i), Content: "x", Category: pythonID, Published: true}); err != nil {
			t.Fatalf("create sibling: %v", err)
		}
	}
	if _, err := svc.Create(alice, PostForm{Title: "Hidden sibling", Content: "x", Category: pythonID}); err != nil {
		t.Fatalf("create draft sibling: %v", err)
	}
	if _, err := svc.Create(alice, PostForm{Title: "Other", Content: "x", Category: fmt.Sprint(golang.ID), Published: true}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	detail, err := svc.View(primary.Slug)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(detail.Related) != RelatedLimit {
		t.Fatalf("expected %d related posts, got %d", RelatedLimit, len(detail.Related))
	}
	for _, related := range detail.Related {
		if related.ID == primary.ID || related.CategoryID == nil || *related.CategoryID != python.ID || !related.Published {
			t.Fatalf("unexpected related post: %+v", related)
		}
	}
}

func TestPostServiceListings(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPostService(gdb)
	svc.PageSize = 2
	alice := createIdentity(t, gdb, "alice", false)
	bob := createIdentity(t, gdb, "bob", false)
	python := createCategory(t, gdb, "Python")

	if _, err := svc.Create(alice, PostForm{Title: "Python Intro", Content: "x", Category: fmt.Sprint(python.ID), Published: true, Featured: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(alice, PostForm{Title: "Alice draft", Content: "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.Create(bob, PostForm{Title: fmt.Sprintf("Bob %d", i), Content: "x", Published: true}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := svc.ListPublished("", 99)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 4 || page.Number != 2 || len(page.Items) != 2 {
		t.Fatalf("unexpected page: number=%d total=%d items=%d", page.Number, page.Total, len(page.Items))
	}

	found, err := svc.ListPublished("  python  ", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if found.Total != 1 || found.Items[0].Title != "Python Intro" {
		t.Fatalf("unexpected search result: %+v", found.Items)
	}

	category, inCategory, err := svc.ListByCategory(python.Slug, 1)
	if err != nil {
		t.Fatalf("list category: %v", err)
	}
	if category.ID != python.ID || inCategory.Total != 1 {
		t.Fatalf("unexpected category listing: %+v total=%d", category, inCategory.Total)
	}
	if _, _, err := svc.ListByCategory("missing", 1); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected category not found, got %v", err)
	}

	mine, err := svc.ListMine(alice, 1)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if mine.Total != 2 {
		t.Fatalf("expected drafts in my posts, got %d", mine.Total)
	}
	if _, err := svc.ListMine(auth.Anonymous(), 1); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected login required, got %v", err)
	}

	featured, err := svc.Featured()
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != 1 || featured[0].Title != "Python Intro" {
		t.Fatalf("unexpected featured posts: %+v", featured)
	}
}

func TestCommentServiceModeration(t *testing.T) {
	gdb := setupServiceTestDB(t)
	posts := NewPostService(gdb)
	comments := NewCommentService(gdb)
	alice := createIdentity(t, gdb, "alice", false)
	staff := createIdentity(t, gdb, "editor", true)

	post, err := posts.Create(alice, PostForm{Title: "Intro", Content: "x", Published: true})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, err := comments.Create(auth.Anonymous(), post.Slug, CommentForm{Content: "hi"}); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected login required, got %v", err)
	}
	_, err = comments.Create(alice, post.Slug, CommentForm{Content: "   "})
	fieldError(t, err, "content")

	comment, err := comments.Create(alice, post.Slug, CommentForm{Content: " Nice post "})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if comment.Approved || comment.Content != "Nice post" {
		t.Fatalf("unexpected comment: %+v", comment)
	}

	detail, err := posts.Detail(post.Slug)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Comments) != 0 {
		t.Fatalf("pending comment must be hidden")
	}

	if _, err := comments.Approve(alice, []uint{comment.ID}); !errors.Is(err, ErrNotStaff) {
		t.Fatalf("expected staff requirement, got %v", err)
	}
	for i := 0; i < 2; i++ {
		matched, err := comments.Approve(staff, []uint{comment.ID})
		if err != nil || matched != 1 {
			t.Fatalf("approve: matched=%d err=%v", matched, err)
		}
	}

	detail, _ = posts.Detail(post.Slug)
	if len(detail.Comments) != 1 || detail.Comments[0].Author.Username != "alice" {
		t.Fatalf("expected approved comment visible, got %+v", detail.Comments)
	}

	if _, err := comments.Disapprove(staff, []uint{comment.ID}); err != nil {
		t.Fatalf("disapprove: %v", err)
	}
	detail, _ = posts.Detail(post.Slug)
	if len(detail.Comments) != 0 {
		t.Fatalf("disapproved comment must be hidden")
	}

	recent, err := comments.ListRecent(staff, 1)
	if err != nil || recent.Total != 1 {
		t.Fatalf("list recent: total=%d err=%v", recent.Total, err)
	}

	draft, _ := posts.Create(alice, PostForm{Title: "Draft", Content: "x"})
	if _, err := comments.Create(alice, draft.Slug, CommentForm{Content: "hi"}); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected drafts to refuse comments, got %v", err)
	}
}

func TestCategoryServiceRequiresStaffAndUniqueName(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCategoryService(gdb)
	alice := createIdentity(t, gdb, "alice", false)
	staff := createIdentity(t, gdb, "editor", true)

	if _, err := svc.Create(alice, CategoryForm{Name: "Python"}); !errors.Is(err, ErrNotStaff) {
		t.Fatalf("expected staff requirement, got %v", err)
	}
	if _, err := svc.Create(auth.Anonymous(), CategoryForm{Name: "Python"}); !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("expected login required, got %v", err)
	}

	category, err := svc.Create(staff, CategoryForm{Name: "Web Development", Description: "guides"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if category.Slug != "web-development" {
		t.Fatalf("unexpected slug %s", category.Slug)
	}

	_, err = svc.Create(staff, CategoryForm{Name: "web development"})
	fieldError(t, err, "name")

	posts := NewPostService(gdb)
	post, err := posts.Create(alice, PostForm{Title: "Tagged", Content: "x", Category: fmt.Sprint(category.ID), Published: true})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, err := svc.Delete(staff, category.Slug); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	var stored db.Post
	if err := gdb.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("post must survive category delete: %v", err)
	}
	if stored.CategoryID != nil {
		t.Fatalf("expected post without category")
	}
	if _, err := svc.Delete(staff, category.Slug); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserServiceRegisterAndAuthenticate(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	_, err := svc.Register(RegisterForm{Username: "bad name", Password: "short", PasswordConfirm: "other"})
	fieldError(t, err, "username")
	fieldError(t, err, "password")
	fieldError(t, err, "password_confirm")

	user, err := svc.Register(RegisterForm{Username: "alice", Password: "s3cret-pass", PasswordConfirm: "s3cret-pass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.IsStaff || user.Password == "s3cret-pass" {
		t.Fatalf("unexpected user: %+v", user)
	}

	_, err = svc.Register(RegisterForm{Username: "alice", Password: "another-pass", PasswordConfirm: "another-pass"})
	if msg := fieldError(t, err, "username"); !strings.Contains(msg, "already exists") {
		t.Fatalf("unexpected duplicate message: %s", msg)
	}

	if _, err := svc.Authenticate(LoginForm{Username: "alice", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(LoginForm{Username: "nobody", Password: "s3cret-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	authed, err := svc.Authenticate(LoginForm{Username: " alice ", Password: "s3cret-pass"})
	if err != nil || authed.ID != user.ID {
		t.Fatalf("authenticate: %+v %v", authed, err)
	}
}

func TestUserServiceDeleteByUsername(t *testing.T) {
	gdb := setupServiceTestDB(t)
	users := NewUserService(gdb)
	alice := createIdentity(t, gdb, "alice", false)

	if _, err := NewPostService(gdb).Create(alice, PostForm{Title: "Bye", Content: "x", Published: true}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, err := users.DeleteByUsername("alice"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := users.DeleteByUsername("alice"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}

	var count int64
	gdb.Model(&db.Post{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected posts removed with user, got %d", count)
	}
}

func TestSeedServiceIsRepeatable(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSeedService(gdb)

	report, err := svc.Run()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !report.AdminNew || report.Categories != len(seedCategories) || report.Posts != len(seedPosts) || report.Comments != len(seedComments) {
		t.Fatalf("unexpected first report: %+v", report)
	}

	again, err := svc.Run()
	if err != nil {
		t.Fatalf("seed again: %v", err)
	}
	if again.AdminNew || again.Categories != 0 || again.Posts != 0 || again.Comments != 0 {
		t.Fatalf("expected nothing new, got %+v", again)
	}

	featured, err := NewPostService(gdb).Featured()
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != FeaturedLimit {
		t.Fatalf("expected %d featured posts, got %d", FeaturedLimit, len(featured))
	}

	detail, err := NewPostService(gdb).Detail("getting-started-with-django")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Comments) != 2 {
		t.Fatalf("expected seeded comments approved, got %d", len(detail.Comments))
	}
}

func TestSeedServiceToleratesExistingContent(t *testing.T) {
	gdb := setupServiceTestDB(t)
	alice := createIdentity(t, gdb, "alice", false)
	python := createCategory(t, gdb, "python")

	userPost, err := NewPostService(gdb).Create(alice, PostForm{Title: "Getting started with Django!", Content: "Mine", Published: true})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	report, err := NewSeedService(gdb).Run()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if report.Categories != len(seedCategories)-1 || report.Posts != len(seedPosts) {
		t.Fatalf("unexpected report: %+v", report)
	}

	var pythonCount int64
	gdb.Model(&db.Category{}).Where("LOWER(name) = ?", "python").Count(&pythonCount)
	if pythonCount != 1 {
		t.Fatalf("expected existing category reused, got %d python categories", pythonCount)
	}

	var seeded db.Post
	if err := gdb.Where("title = ?", "Getting Started with Django").First(&seeded).Error; err != nil {
		t.Fatalf("load seeded post: %v", err)
	}
	if seeded.Slug != userPost.Slug+"-2" {
		t.Fatalf("expected suffixed slug, got %q next to %q", seeded.Slug, userPost.Slug)
	}

	var bestPractices db.Post
	if err := gdb.Where("title = ?", "Python Best Practices for Beginners").First(&bestPractices).Error; err != nil {
		t.Fatalf("load seeded post: %v", err)
	}
	if bestPractices.CategoryID == nil || *bestPractices.CategoryID != python.ID {
		t.Fatalf("expected seeded post in existing category %d, got %v", python.ID, bestPractices.CategoryID)
	}
}
