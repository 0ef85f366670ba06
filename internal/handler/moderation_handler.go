package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
)

const staffOnlyModeration = "Only staff members can moderate comments."

// ShowComments lists recent comments for moderation.
func (a *API) ShowComments(c *gin.Context) {
	page, err := a.comments.ListRecent(auth.Current(c), parsePage(c))
	if err != nil {
		a.handleStaffDenied(c, err, staffOnlyModeration)
		return
	}

	a.renderHTML(c, http.StatusOK, "admin_comments.html", gin.H{
		"title": "Moderate Comments",
		"page":  page,
	})
}

// ApproveComments 批量通过评论
func (a *API) ApproveComments(c *gin.Context) {
	a.moderate(c, true)
}

// DisapproveComments 批量撤回评论
func (a *API) DisapproveComments(c *gin.Context) {
	a.moderate(c, false)
}

func (a *API) moderate(c *gin.Context, approve bool) {
	ids := parseUintQuerySlice(c.PostFormArray("ids"))
	identity := auth.Current(c)

	var (
		matched int64
		err     error
	)
	if approve {
		matched, err = a.comments.Approve(identity, ids)
	} else {
		matched, err = a.comments.Disapprove(identity, ids)
	}
	if err != nil {
		a.handleStaffDenied(c, err, staffOnlyModeration)
		return
	}

	action := "approved"
	if !approve {
		action = "disapproved"
	}
	addFlash(c, flashSuccess, fmt.Sprintf("%d comment(s) %s.", matched, action))
	c.Redirect(http.StatusFound, "/admin/comments/")
}
