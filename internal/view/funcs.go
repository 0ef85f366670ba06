package view

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pressroom/internal/auth"
)

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"markdown": markdownOrText,
		"icon":     Icon,
		"truncate": Truncate,
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"pageURL":  PageURL,
		"loginURL": auth.LoginURL,
		"selected": func(selected string, id uint) bool {
			return selected == strconv.FormatUint(uint64(id), 10)
		},
	}
}

// Truncate shortens text to at most limit runes, appending an ellipsis.
func Truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

// PageURL builds a listing link keeping the search term.
func PageURL(path, search string, page int) string {
	values := url.Values{}
	if search = strings.TrimSpace(search); search != "" {
		values.Set("search", search)
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if encoded := values.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
