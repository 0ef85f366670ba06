package service

import (
	"strings"

	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/logger"
	"github.com/pressroom/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 用户注册、登录与删除
type UserService struct {
	db    *gorm.DB
	users repository.UserRepository
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb, users: repository.NewUserRepository(gdb)}
}

// Register validates the form and creates a regular account.
func (s *UserService) Register(form RegisterForm) (*db.User, error) {
	form.Username = strings.TrimSpace(form.Username)

	verr := validateForm(&form)
	if _, rejected := verr.Fields["username"]; !rejected {
		existing, err := s.users.FindByUsername(form.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			verr.Add("username", "A user with that username already exists.")
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{Username: form.Username, Password: string(hashed)}
	if err := s.users.Create(&user); err != nil {
		return nil, err
	}
	logger.Infow("user_registered", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

// Authenticate checks the credentials and returns the matching user.
func (s *UserService) Authenticate(form LoginForm) (*db.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	if err := validateForm(&form).orNil(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(form.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Ensure creates the account when missing and raises the staff flag when asked.
func (s *UserService) Ensure(username, password string, staff bool) (*db.User, error) {
	return db.EnsureUser(s.db, username, password, staff)
}

// DeleteByUsername removes the account together with its posts and comments.
func (s *UserService) DeleteByUsername(username string) (*db.User, error) {
	user, err := s.users.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := s.users.Delete(user.ID); err != nil {
		return nil, err
	}
	logger.Infow("user_deleted", "user_id", user.ID, "username", user.Username)
	return user, nil
}
