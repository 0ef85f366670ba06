package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/service"
)

// ShowPostCreate 渲染新建文章表单
func (a *API) ShowPostCreate(c *gin.Context) {
	a.renderPostForm(c, http.StatusOK, nil, service.PostForm{}, nil)
}

// CreatePost 创建文章，作者为当前登录用户
func (a *API) CreatePost(c *gin.Context) {
	var form service.PostForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderPostForm(c, http.StatusBadRequest, nil, form, map[string]string{"__all__": "Invalid form submission."})
		return
	}

	post, err := a.posts.Create(auth.Current(c), form)
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			a.renderPostForm(c, http.StatusBadRequest, nil, form, errs)
			return
		}
		if errors.Is(err, service.ErrLoginRequired) {
			redirectToLogin(c, c.Request.URL.RequestURI())
			return
		}
		a.fail(c, err)
		return
	}

	addFlash(c, flashSuccess, "Your post has been created successfully!")
	c.Redirect(http.StatusFound, afterSavePath(post))
}

// ShowPostEdit 渲染编辑表单，仅作者可访问
func (a *API) ShowPostEdit(c *gin.Context) {
	post, err := a.posts.Editable(auth.Current(c), c.Param("slug"))
	if a.handleEditDenied(c, post, err, "You can only edit your own posts.") {
		return
	}

	a.renderPostForm(c, http.StatusOK, post, formFromPost(post), nil)
}

// UpdatePost 保存编辑
func (a *API) UpdatePost(c *gin.Context) {
	var form service.PostForm
	if err := c.ShouldBind(&form); err != nil {
		post, findErr := a.posts.Editable(auth.Current(c), c.Param("slug"))
		if a.handleEditDenied(c, post, findErr, "You can only edit your own posts.") {
			return
		}
		a.renderPostForm(c, http.StatusBadRequest, post, form, map[string]string{"__all__": "Invalid form submission."})
		return
	}

	post, err := a.posts.Update(auth.Current(c), c.Param("slug"), form)
	if errs, ok := fieldErrors(err); ok {
		a.renderPostForm(c, http.StatusBadRequest, post, form, errs)
		return
	}
	if a.handleEditDenied(c, post, err, "You can only edit your own posts.") {
		return
	}

	addFlash(c, flashSuccess, "Your post has been updated successfully!")
	c.Redirect(http.StatusFound, afterSavePath(post))
}

// ShowPostDelete 渲染删除确认页
func (a *API) ShowPostDelete(c *gin.Context) {
	post, err := a.posts.Editable(auth.Current(c), c.Param("slug"))
	if a.handleEditDenied(c, post, err, "You can only delete your own posts.") {
		return
	}

	a.renderHTML(c, http.StatusOK, "post_confirm_delete.html", gin.H{
		"title": "Delete " + post.Title,
		"post":  post,
	})
}

// DeletePost 删除文章及其评论
func (a *API) DeletePost(c *gin.Context) {
	post, err := a.posts.Delete(auth.Current(c), c.Param("slug"))
	if a.handleEditDenied(c, post, err, "You can only delete your own posts.") {
		return
	}

	addFlash(c, flashSuccess, "Your post has been deleted successfully!")
	c.Redirect(http.StatusFound, "/")
}

// CreateComment adds a comment to a published post.
func (a *API) CreateComment(c *gin.Context) {
	slug := c.Param("slug")

	var form service.CommentForm
	_ = c.ShouldBind(&form)

	_, err := a.comments.Create(auth.Current(c), slug, form)
	if err == nil {
		addFlash(c, flashSuccess, "Your comment has been submitted and is awaiting moderation.")
		c.Redirect(http.StatusFound, postPath(slug))
		return
	}

	switch {
	case errors.Is(err, service.ErrLoginRequired):
		redirectToLogin(c, postPath(slug))
	case errors.Is(err, service.ErrPostNotFound):
		a.notFound(c)
	default:
		errs, ok := fieldErrors(err)
		if !ok {
			a.fail(c, err)
			return
		}
		detail, detailErr := a.posts.Detail(slug)
		if detailErr != nil {
			if errors.Is(detailErr, service.ErrPostNotFound) {
				a.notFound(c)
				return
			}
			a.fail(c, detailErr)
			return
		}
		a.renderPostDetail(c, http.StatusBadRequest, detail, form, errs)
	}
}

// ShowMyPosts lists the caller's posts including drafts.
func (a *API) ShowMyPosts(c *gin.Context) {
	page, err := a.posts.ListMine(auth.Current(c), parsePage(c))
	if err != nil {
		if errors.Is(err, service.ErrLoginRequired) {
			redirectToLogin(c, c.Request.URL.RequestURI())
			return
		}
		a.fail(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "my_posts.html", gin.H{
		"title": "My Posts",
		"page":  page,
	})
}

// handleEditDenied writes the response for a failed author lookup and
// reports whether the handler must stop.
func (a *API) handleEditDenied(c *gin.Context, post *db.Post, err error, deniedMessage string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, service.ErrNotAuthor):
		addFlash(c, flashError, deniedMessage)
		c.Redirect(http.StatusFound, postPath(post.Slug))
	case errors.Is(err, service.ErrPostNotFound):
		a.notFound(c)
	case errors.Is(err, service.ErrLoginRequired):
		redirectToLogin(c, c.Request.URL.RequestURI())
	default:
		a.fail(c, err)
	}
	return true
}

func (a *API) renderPostForm(c *gin.Context, status int, post *db.Post, form service.PostForm, errs map[string]string) {
	categories, err := a.categories.List()
	if err != nil {
		a.fail(c, err)
		return
	}
	if errs == nil {
		errs = map[string]string{}
	}

	title := "Create Post"
	action := "/post/create/"
	if post != nil {
		title = "Edit Post"
		action = "/post/" + post.Slug + "/edit/"
	}

	a.renderHTML(c, status, "post_form.html", gin.H{
		"title":      title,
		"action":     action,
		"post":       post,
		"form":       form,
		"errors":     errs,
		"categories": categories,
	})
}

func formFromPost(post *db.Post) service.PostForm {
	form := service.PostForm{
		Title:     post.Title,
		Content:   post.Content,
		Published: post.Published,
		Featured:  post.Featured,
	}
	if post.CategoryID != nil {
		form.Category = uintToString(*post.CategoryID)
	}
	return form
}

// afterSavePath sends drafts to the author's list since their detail page is hidden.
func afterSavePath(post *db.Post) string {
	if post.Published {
		return postPath(post.Slug)
	}
	return "/my-posts/"
}
