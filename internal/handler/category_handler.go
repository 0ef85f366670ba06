package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/service"
)

const staffOnlyCategories = "Only staff members can create categories."

// ShowCategoryCreate 渲染新建分类表单，仅管理员可见
func (a *API) ShowCategoryCreate(c *gin.Context) {
	if !auth.Current(c).IsStaff {
		addFlash(c, flashError, staffOnlyCategories)
		c.Redirect(http.StatusFound, "/")
		return
	}

	a.renderCategoryForm(c, http.StatusOK, service.CategoryForm{}, nil)
}

// CreateCategory 创建分类
func (a *API) CreateCategory(c *gin.Context) {
	var form service.CategoryForm
	_ = c.ShouldBind(&form)

	category, err := a.categories.Create(auth.Current(c), form)
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			a.renderCategoryForm(c, http.StatusBadRequest, form, errs)
			return
		}
		a.handleStaffDenied(c, err, staffOnlyCategories)
		return
	}

	addFlash(c, flashSuccess, "Category created successfully!")
	c.Redirect(http.StatusFound, "/category/"+category.Slug+"/")
}

// DeleteCategory 删除分类，文章保留但不再属于任何分类
func (a *API) DeleteCategory(c *gin.Context) {
	category, err := a.categories.Delete(auth.Current(c), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			a.notFound(c)
			return
		}
		a.handleStaffDenied(c, err, "Only staff members can delete categories.")
		return
	}

	addFlash(c, flashSuccess, "Category \""+category.Name+"\" deleted.")
	c.Redirect(http.StatusFound, "/")
}

func (a *API) renderCategoryForm(c *gin.Context, status int, form service.CategoryForm, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	a.renderHTML(c, status, "category_form.html", gin.H{
		"title":  "Create Category",
		"form":   form,
		"errors": errs,
	})
}

// handleStaffDenied maps staff-only failures to a redirect home.
func (a *API) handleStaffDenied(c *gin.Context, err error, deniedMessage string) {
	switch {
	case errors.Is(err, service.ErrNotStaff):
		addFlash(c, flashError, deniedMessage)
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, service.ErrLoginRequired):
		redirectToLogin(c, c.Request.URL.RequestURI())
	default:
		a.fail(c, err)
	}
}
