package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	posts      *service.PostService
	categories *service.CategoryService
	comments   *service.CommentService
	users      *service.UserService
	siteName   string
}

// Options tunes the handler set.
type Options struct {
	SiteName string
	PageSize int
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	posts := service.NewPostService(db)
	if opts.PageSize > 0 {
		posts.PageSize = opts.PageSize
	}

	siteName := strings.TrimSpace(opts.SiteName)
	if siteName == "" {
		siteName = "Pressroom"
	}

	return &API{
		posts:      posts,
		categories: service.NewCategoryService(db),
		comments:   service.NewCommentService(db),
		users:      service.NewUserService(db),
		siteName:   siteName,
	}
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	defaults := gin.H{
		"siteName": a.siteName,
		"title":    "",
		"year":     time.Now().Year(),
		"identity": auth.Current(c),
		"errors":   map[string]string{},
		"search":   "",
		"path":     c.Request.URL.RequestURI(),
		"pagePath": c.Request.URL.Path,
	}
	for key, value := range defaults {
		if _, exists := payload[key]; !exists {
			payload[key] = value
		}
	}
	payload["flashes"] = popFlashes(c)

	c.HTML(status, template, payload)
}
