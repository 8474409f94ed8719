package payload

import (
	baseHttp "net/http"
	"strings"
	"time"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository/queries"
)

type CreatePostRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Body    []string `json:"body" validate:"required,min=1,dive,required"`
	Excerpt string   `json:"excerpt" validate:"omitempty,max=300"`
	Tags    []string `json:"tags" validate:"omitempty,dive,required"`
	Status  string   `json:"status" validate:"omitempty,oneof=draft published"`
}

// UpdatePostRequest distinguishes absent fields (nil) from present zero
// values, so clearing tags is expressible while an untouched field stays
// untouched.
type UpdatePostRequest struct {
	Title   *string   `json:"title" validate:"omitempty,max=200"`
	Body    *[]string `json:"body" validate:"omitempty,min=1,dive,required"`
	Excerpt *string   `json:"excerpt" validate:"omitempty,max=300"`
	Tags    *[]string `json:"tags"`
	Status  *string   `json:"status" validate:"omitempty,oneof=draft published"`
}

type PostResponse struct {
	ID          string        `json:"id"`
	Author      AdminResponse `json:"author"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	Body        []string      `json:"body"`
	Tags        []string      `json:"tags"`
	Status      string        `json:"status"`
	ViewCount   uint64        `json:"viewCount"`
	ImageURLs   []string      `json:"imageUrls"`
	PublishedAt *time.Time    `json:"publishedAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// PostSummaryResponse is the listing projection: everything but the body.
type PostSummaryResponse struct {
	ID          string        `json:"id"`
	Author      AdminResponse `json:"author"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	Tags        []string      `json:"tags"`
	Status      string        `json:"status"`
	ViewCount   uint64        `json:"viewCount"`
	ImageURLs   []string      `json:"imageUrls"`
	PublishedAt *time.Time    `json:"publishedAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func GetPostResponse(p database.Post) PostResponse {
	return PostResponse{
		ID:          p.UUID,
		Slug:        p.Slug,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Body:        p.Paragraphs(),
		Tags:        p.Tags,
		Status:      p.Status,
		ViewCount:   p.ViewCount,
		ImageURLs:   GetImageURLs(p.Images),
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Author: AdminResponse{
			ID:       p.Author.UUID,
			Username: p.Author.Username,
		},
	}
}

func GetPostSummaryResponse(p database.Post) PostSummaryResponse {
	return PostSummaryResponse{
		ID:          p.UUID,
		Slug:        p.Slug,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Tags:        p.Tags,
		Status:      p.Status,
		ViewCount:   p.ViewCount,
		ImageURLs:   GetImageURLs(p.Images),
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Author: AdminResponse{
			ID:       p.Author.UUID,
			Username: p.Author.Username,
		},
	}
}

// GetImageURLs derives retrieval paths in attachment order.
func GetImageURLs(images []database.PostImage) []string {
	urls := make([]string, 0, len(images))

	for _, image := range images {
		urls = append(urls, image.Path)
	}

	return urls
}

func GetPostsFiltersFrom(r *baseHttp.Request, includeStatus bool) *queries.PostFilters {
	query := r.URL.Query()

	filters := queries.PostFilters{
		Text: query.Get("q"),
	}

	if includeStatus {
		filters.Status = query.Get("status")
	}

	return &filters
}

func GetSlugFrom(r *baseHttp.Request) string {
	return strings.ToLower(strings.TrimSpace(r.PathValue("slug")))
}

func GetUUIDFrom(r *baseHttp.Request) string {
	return strings.TrimSpace(r.PathValue("uuid"))
}
