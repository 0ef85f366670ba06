package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/logger"
	"github.com/pressroom/internal/service"
)

const loginThrottledMessage = "Too many login attempts. Please try again later."

// ShowRegister 渲染注册页面
func (a *API) ShowRegister(c *gin.Context) {
	if auth.Current(c).Authenticated {
		c.Redirect(http.StatusFound, "/")
		return
	}
	a.renderRegister(c, http.StatusOK, service.RegisterForm{}, nil)
}

// Register 创建普通账号
func (a *API) Register(c *gin.Context) {
	if auth.Current(c).Authenticated {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form service.RegisterForm
	_ = c.ShouldBind(&form)

	user, err := a.users.Register(form)
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			a.renderRegister(c, http.StatusBadRequest, form, errs)
			return
		}
		a.fail(c, err)
		return
	}

	addFlash(c, flashSuccess, "Account created for "+user.Username+"! You can now log in.")
	c.Redirect(http.StatusFound, auth.LoginPath)
}

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	if auth.Current(c).Authenticated {
		c.Redirect(http.StatusFound, "/")
		return
	}
	a.renderLogin(c, http.StatusOK, "", c.Query("next"), "")
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	if auth.Current(c).Authenticated {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form service.LoginForm
	_ = c.ShouldBind(&form)
	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}

	user, err := a.users.Authenticate(form)
	if err != nil {
		var verr *service.ValidationError
		if errors.Is(err, service.ErrInvalidCredentials) || errors.As(err, &verr) {
			logger.Infow("login_failed", "username", form.Username, "ip", c.ClientIP())
			a.renderLogin(c, http.StatusOK, form.Username, next, "Invalid username or password.")
			return
		}
		a.fail(c, err)
		return
	}

	if err := auth.SignIn(c, user); err != nil {
		a.fail(c, err)
		return
	}

	addFlash(c, flashSuccess, "Welcome back, "+user.Username+"!")
	c.Redirect(http.StatusFound, auth.SafeNext(next))
}

// LoginThrottled answers a rate limited login attempt.
func (a *API) LoginThrottled(c *gin.Context) {
	a.renderLogin(c, http.StatusTooManyRequests, c.PostForm("username"), c.PostForm("next"), loginThrottledMessage)
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	if err := auth.SignOut(c); err != nil {
		a.fail(c, err)
		return
	}
	addFlash(c, flashSuccess, "You have been logged out successfully.")
	c.Redirect(http.StatusFound, "/")
}

func (a *API) renderRegister(c *gin.Context, status int, form service.RegisterForm, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	form.Password = ""
	form.PasswordConfirm = ""
	a.renderHTML(c, status, "register.html", gin.H{
		"title":  "Register",
		"form":   form,
		"errors": errs,
	})
}

func (a *API) renderLogin(c *gin.Context, status int, username, next, message string) {
	a.renderHTML(c, status, "login.html", gin.H{
		"title":    "Login",
		"username": username,
		"next":     next,
		"error":    message,
	})
}
