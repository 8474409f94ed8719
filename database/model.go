package database

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

const DriverName = "postgres"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// paragraphSeparator joins the ordered body paragraphs into a single text
// column. Paragraphs are non-empty by contract, so a blank line never occurs
// inside one.
const paragraphSeparator = "\n\n"

type Admin struct {
	ID           uint64 `gorm:"primaryKey"`
	UUID         string `gorm:"uniqueIndex;not null"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:admin"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Posts        []Post `gorm:"foreignKey:AuthorID"`
}

func (a Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

type Post struct {
	ID          uint64 `gorm:"primaryKey"`
	UUID        string `gorm:"uniqueIndex;not null"`
	AuthorID    uint64 `gorm:"index;not null"`
	Author      Admin  `gorm:"foreignKey:AuthorID"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Title       string `gorm:"not null"`
	Excerpt     string `gorm:"not null"`
	Content     string         `gorm:"type:text;not null"`
	Tags        pq.StringArray `gorm:"type:text[]"`
	Status      string         `gorm:"not null;default:draft;index"`
	ViewCount   uint64         `gorm:"not null;default:0"`
	PublishedAt *time.Time     `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Images      []PostImage `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// Paragraphs returns the ordered body paragraphs stored in Content.
func (p Post) Paragraphs() []string {
	if strings.TrimSpace(p.Content) == "" {
		return nil
	}

	return strings.Split(p.Content, paragraphSeparator)
}

func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}

func JoinParagraphs(paragraphs []string) string {
	return strings.Join(paragraphs, paragraphSeparator)
}

// PostImage is an attached asset reference. Rows are append-only: updates add
// new rows and never mutate existing ones.
type PostImage struct {
	ID           uint64 `gorm:"primaryKey"`
	PostID       uint64 `gorm:"index;not null"`
	StorageName  string `gorm:"uniqueIndex;not null"`
	OriginalName string `gorm:"not null"`
	Path         string `gorm:"not null"`
	Size         int64  `gorm:"not null"`
	MimeType     string `gorm:"not null"`
	CreatedAt    time.Time
}

func GetSchemaTables() []string {
	return []string{
		"admins",
		"posts",
		"post_images",
	}
}
