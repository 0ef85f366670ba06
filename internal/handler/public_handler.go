package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/service"
)

// ShowHome renders published posts with search, pagination and the category sidebar.
func (a *API) ShowHome(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))

	page, err := a.posts.ListPublished(search, parsePage(c))
	if err != nil {
		a.fail(c, err)
		return
	}

	categories, err := a.categories.List()
	if err != nil {
		a.fail(c, err)
		return
	}

	data := gin.H{
		"title":      "Home",
		"search":     search,
		"page":       page,
		"categories": categories,
	}

	if search == "" && page.Number == 1 {
		featured, err := a.posts.Featured()
		if err != nil {
			a.fail(c, err)
			return
		}
		data["featured"] = featured
	}

	a.renderHTML(c, http.StatusOK, "home.html", data)
}

// ShowPostDetail renders a published post and counts the view.
func (a *API) ShowPostDetail(c *gin.Context) {
	detail, err := a.posts.View(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.notFound(c)
			return
		}
		a.fail(c, err)
		return
	}

	a.renderPostDetail(c, http.StatusOK, detail, service.CommentForm{}, nil)
}

func (a *API) renderPostDetail(c *gin.Context, status int, detail *service.PostDetail, form service.CommentForm, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	a.renderHTML(c, status, "post_detail.html", gin.H{
		"title":       detail.Post.Title,
		"detail":      detail,
		"canEdit":     auth.Current(c).Owns(detail.Post.AuthorID),
		"commentForm": form,
		"errors":      errs,
		"path":        postPath(detail.Post.Slug),
	})
}

// ShowCategoryPosts lists the published posts of one category.
func (a *API) ShowCategoryPosts(c *gin.Context) {
	category, page, err := a.posts.ListByCategory(c.Param("slug"), parsePage(c))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			a.notFound(c)
			return
		}
		a.fail(c, err)
		return
	}

	categories, err := a.categories.List()
	if err != nil {
		a.fail(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "category_posts.html", gin.H{
		"title":      category.Name,
		"category":   category,
		"page":       page,
		"categories": categories,
	})
}
