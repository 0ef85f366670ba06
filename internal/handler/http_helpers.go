package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/logger"
	"github.com/pressroom/internal/service"
)

// parsePage reads ?page=; junk becomes 1 and the listing clamps the rest.
func parsePage(c *gin.Context) int {
	raw := strings.TrimSpace(c.Query("page"))
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseUintQuerySlice(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, raw := range values {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		parsed, err := strconv.ParseUint(trimmed, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(parsed))
	}
	return ids
}

func fieldErrors(err error) (map[string]string, bool) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

func (a *API) notFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{"title": "Not found"})
}

// fail logs the error on the request and renders the generic error page.
func (a *API) fail(c *gin.Context, err error) {
	c.Error(err)
	logger.Errorw("request_failed", "path", c.Request.URL.Path, "error", err)
	a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{"title": "Error"})
}

func redirectToLogin(c *gin.Context, next string) {
	c.Redirect(http.StatusFound, auth.LoginURL(next))
}

func postPath(slug string) string {
	return "/post/" + slug + "/"
}

// NotFound renders the 404 page for unmatched routes.
func (a *API) NotFound(c *gin.Context) {
	a.notFound(c)
}

func uintToString(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}
