package db

import "time"

// Category 定义了文章分类模型
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;uniqueIndex;not null"`
	Slug        string `gorm:"size:120;uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}

// Post 定义了文章模型
type Post struct {
	ID         uint      `gorm:"primaryKey"`
	Title      string    `gorm:"size:200;not null"`
	Slug       string    `gorm:"size:220;uniqueIndex;not null"`
	Content    string    `gorm:"type:text;not null"`
	AuthorID   uint      `gorm:"not null;index"`
	CategoryID *uint     `gorm:"index"`
	Published  bool      `gorm:"not null;default:false;index"`
	Featured   bool      `gorm:"not null;default:false"`
	ViewCount  uint64    `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
	Author     User
	Category   *Category
}

// Comment 定义了文章评论模型，Approved 为 false 时仅管理员可见。
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"not null;index"`
	AuthorID  uint   `gorm:"not null;index"`
	Content   string `gorm:"type:text;not null"`
	Approved  bool   `gorm:"not null;default:false;index"`
	CreatedAt time.Time
	Post      Post
	Author    User
}
