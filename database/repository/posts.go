package repository

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
	stdgorm "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository/pagination"
	"github.com/inkwell/database/repository/queries"
	"github.com/inkwell/pkg/auth"
	"github.com/inkwell/pkg/fault"
	"github.com/inkwell/pkg/gorm"
	"github.com/inkwell/pkg/portal"
)

const MaxTitleLength = 200
const MaxExcerptLength = 300

// Visibility scopes a read. Public excludes drafts at the query level so a
// draft can never leak through pagination counts or search.
type Visibility int

const (
	VisibilityAny Visibility = iota
	VisibilityPublic
)

type Posts struct {
	DB *database.Connection

	// SlugDisallow lists chunks removed from titles before slug
	// normalisation.
	SlugDisallow []string
}

func (p Posts) Create(ctx context.Context, attrs database.PostAttrs) (*database.Post, error) {
	title, body, err := p.guardTitleAndBody(attrs.Title, attrs.Body)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(attrs.Status)
	if status == "" {
		status = database.StatusDraft
	}

	if status != database.StatusDraft && status != database.StatusPublished {
		return nil, fault.NewValidation(
			"status must be either draft or published",
			fault.FieldError{Field: "status", Message: "invalid status", Value: attrs.Status},
		)
	}

	excerpt, err := p.resolveExcerpt(attrs.Excerpt, body)
	if err != nil {
		return nil, err
	}

	slug := portal.Slugify(title, p.SlugDisallow...)
	if slug == "" {
		return nil, fault.NewValidation(
			"title must contain at least one letter or digit",
			fault.FieldError{Field: "title", Message: "cannot be slugged", Value: attrs.Title},
		)
	}

	var publishedAt *time.Time
	if status == database.StatusPublished {
		now := time.Now().UTC()
		publishedAt = &now
	}

	post := database.Post{
		UUID:        uuid.NewString(),
		AuthorID:    attrs.AuthorID,
		Slug:        slug,
		Title:       title,
		Excerpt:     excerpt,
		Content:     database.JoinParagraphs(body),
		Tags:        pq.StringArray(attrs.Tags),
		Status:      status,
		PublishedAt: publishedAt,
		Images:      imagesFrom(attrs.Images),
	}

	if result := p.DB.Sql().WithContext(ctx).Create(&post); result.Error != nil {
		if gorm.IsDuplicated(result.Error) {
			return nil, fault.NewConflict("a post with this title already exists")
		}

		return nil, fault.NewInternal(fmt.Errorf("issue creating post [%s]: %w", slug, result.Error))
	}

	return p.FindBy(ctx, post.UUID, VisibilityAny)
}

func (p Posts) Update(ctx context.Context, postUUID string, patch database.PostPatch, actor *database.Admin) (*database.Post, error) {
	err := p.DB.Transaction(func(tx *stdgorm.DB) error {
		post := database.Post{}

		result := tx.WithContext(ctx).Where("uuid = ?", postUUID).First(&post)
		if gorm.IsNotFound(result.Error) {
			return fault.NewNotFound("post not found")
		}

		if result.Error != nil {
			return fault.NewInternal(fmt.Errorf("issue loading post [%s]: %w", postUUID, result.Error))
		}

		if !auth.CanModify(actor, post.AuthorID) {
			return fault.NewForbidden("you can only edit your own posts")
		}

		if err := p.applyPatch(&post, patch); err != nil {
			return err
		}

		save := tx.WithContext(ctx).Omit(clause.Associations).Save(&post)
		if save.Error != nil {
			if gorm.IsDuplicated(save.Error) {
				return fault.NewConflict("a post with this title already exists")
			}

			return fault.NewInternal(fmt.Errorf("issue updating post [%s]: %w", postUUID, save.Error))
		}

		// New uploads only ever append; existing rows are never touched.
		for _, attrs := range patch.Images {
			image := imageFrom(attrs)
			image.PostID = post.ID

			if result := tx.WithContext(ctx).Create(&image); result.Error != nil {
				return fault.NewInternal(fmt.Errorf("issue attaching image [%s]: %w", attrs.StorageName, result.Error))
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return p.FindBy(ctx, postUUID, VisibilityAny)
}

// Delete removes a post and returns the asset references that were attached
// so the caller can instruct the file store to clean up. The repository never
// performs file I/O itself.
func (p Posts) Delete(ctx context.Context, postUUID string, actor *database.Admin) ([]database.ImageAttrs, error) {
	post := database.Post{}

	result := p.DB.Sql().WithContext(ctx).Preload("Images").Where("uuid = ?", postUUID).First(&post)
	if gorm.IsNotFound(result.Error) {
		return nil, fault.NewNotFound("post not found")
	}

	if result.Error != nil {
		return nil, fault.NewInternal(fmt.Errorf("issue loading post [%s]: %w", postUUID, result.Error))
	}

	if !auth.CanModify(actor, post.AuthorID) {
		return nil, fault.NewForbidden("you can only delete your own posts")
	}

	orphans := make([]database.ImageAttrs, 0, len(post.Images))
	for _, image := range post.Images {
		orphans = append(orphans, database.ImageAttrs{
			StorageName:  image.StorageName,
			OriginalName: image.OriginalName,
			Path:         image.Path,
			Size:         image.Size,
			MimeType:     image.MimeType,
		})
	}

	err := p.DB.Transaction(func(tx *stdgorm.DB) error {
		if result := tx.WithContext(ctx).Where("post_id = ?", post.ID).Delete(&database.PostImage{}); result.Error != nil {
			return fault.NewInternal(fmt.Errorf("issue deleting post images [%s]: %w", postUUID, result.Error))
		}

		if result := tx.WithContext(ctx).Delete(&post); result.Error != nil {
			return fault.NewInternal(fmt.Errorf("issue deleting post [%s]: %w", postUUID, result.Error))
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return orphans, nil
}

func (p Posts) FindBy(ctx context.Context, postUUID string, scope Visibility) (*database.Post, error) {
	return p.findOne(ctx, "posts.uuid = ?", postUUID, scope)
}

func (p Posts) FindBySlug(ctx context.Context, slug string, scope Visibility) (*database.Post, error) {
	return p.findOne(ctx, "posts.slug = ?", strings.ToLower(strings.TrimSpace(slug)), scope)
}

func (p Posts) findOne(ctx context.Context, condition string, value string, scope Visibility) (*database.Post, error) {
	post := database.Post{}

	query := p.DB.Sql().WithContext(ctx).
		Preload("Author").
		Preload("Images", func(db *stdgorm.DB) *stdgorm.DB {
			return db.Order("post_images.id ASC")
		}).
		Where(condition, value)

	if scope == VisibilityPublic {
		query = query.Where("posts.status = ?", database.StatusPublished)
	}

	result := query.First(&post)
	if gorm.IsNotFound(result.Error) {
		return nil, fault.NewNotFound("post not found")
	}

	if result.Error != nil {
		return nil, fault.NewInternal(fmt.Errorf("issue fetching post [%s]: %w", value, result.Error))
	}

	if scope == VisibilityPublic {
		// Atomic in-database increment: concurrent public reads never lose
		// updates. Admin reads go through VisibilityAny and never count.
		inc := p.DB.Sql().WithContext(ctx).
			Model(&database.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("view_count", stdgorm.Expr("view_count + ?", 1))

		if inc.Error != nil {
			return nil, fault.NewInternal(fmt.Errorf("issue counting view [%s]: %w", value, inc.Error))
		}

		post.ViewCount++
	}

	return &post, nil
}

func (p Posts) GetPosts(ctx context.Context, filters *queries.PostFilters, paginate pagination.Paginate, scope Visibility) (*pagination.Page[database.Post], error) {
	var numItems int64
	var posts []database.Post

	query := p.DB.Sql().WithContext(ctx).Model(&database.Post{})

	if scope == VisibilityPublic {
		query = query.Where("posts.status = ?", database.StatusPublished)
	}

	queries.ApplyPostFilters(filters, query)

	if err := pagination.Count[*int64](&numItems, query, p.DB.GetSession(), "posts.id"); err != nil {
		return nil, fault.NewInternal(fmt.Errorf("issue counting posts: %w", err))
	}

	query = query.Preload("Author").
		Preload("Images", func(db *stdgorm.DB) *stdgorm.DB {
			return db.Order("post_images.id ASC")
		})

	if scope == VisibilityPublic {
		// Public listings are a summary projection: the body column stays
		// out of the wire entirely.
		query = query.
			Select("posts.id, posts.uuid, posts.author_id, posts.slug, posts.title, posts.excerpt, posts.tags, posts.status, posts.view_count, posts.published_at, posts.created_at, posts.updated_at").
			Order("posts.published_at DESC NULLS LAST").
			Order("posts.created_at DESC")
	} else {
		query = query.Order("posts.created_at DESC")
	}

	err := query.
		Limit(paginate.Limit).
		Offset(paginate.GetOffset()).
		Find(&posts).Error

	if err != nil {
		return nil, fault.NewInternal(fmt.Errorf("issue listing posts: %w", err))
	}

	paginate.SetNumItems(numItems)

	return pagination.MakePage[database.Post](posts, paginate), nil
}

func (p Posts) applyPatch(post *database.Post, patch database.PostPatch) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)

		// Explicit-presence semantics: a present-but-empty title is a
		// mistake, not a no-op.
		if title == "" {
			return fault.NewValidation(
				"title cannot be empty",
				fault.FieldError{Field: "title", Message: "cannot be empty", Value: *patch.Title},
			)
		}

		if utf8.RuneCountInString(title) > MaxTitleLength {
			return fault.NewValidation(
				"title cannot exceed 200 characters",
				fault.FieldError{Field: "title", Message: "too long", Value: title},
			)
		}

		if title != post.Title {
			slug := portal.Slugify(title, p.SlugDisallow...)
			if slug == "" {
				return fault.NewValidation(
					"title must contain at least one letter or digit",
					fault.FieldError{Field: "title", Message: "cannot be slugged", Value: title},
				)
			}

			post.Slug = slug
		}

		post.Title = title
	}

	if patch.Body != nil {
		body := portal.FilterNonEmpty(*patch.Body)
		if len(body) == 0 {
			return fault.NewValidation(
				"body must have at least one non-empty paragraph",
				fault.FieldError{Field: "body", Message: "cannot be empty"},
			)
		}

		post.Content = database.JoinParagraphs(body)
	}

	if patch.Tags != nil {
		post.Tags = pq.StringArray(*patch.Tags)
	}

	if patch.Status != nil {
		status := strings.TrimSpace(*patch.Status)

		if status != database.StatusDraft && status != database.StatusPublished {
			return fault.NewValidation(
				"status must be either draft or published",
				fault.FieldError{Field: "status", Message: "invalid status", Value: *patch.Status},
			)
		}

		post.Status = status

		// publishedAt is set exactly once, on the first transition to
		// published. Toggling back and forth never rewrites it.
		if status == database.StatusPublished && post.PublishedAt == nil {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
	}

	if patch.Excerpt != nil {
		excerpt, err := p.resolveExcerpt(*patch.Excerpt, post.Paragraphs())
		if err != nil {
			return err
		}

		post.Excerpt = excerpt
	}

	return nil
}

func (p Posts) guardTitleAndBody(rawTitle string, rawBody []string) (string, []string, error) {
	title := strings.TrimSpace(rawTitle)

	if title == "" {
		return "", nil, fault.NewValidation(
			"title is required",
			fault.FieldError{Field: "title", Message: "required"},
		)
	}

	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", nil, fault.NewValidation(
			"title cannot exceed 200 characters",
			fault.FieldError{Field: "title", Message: "too long", Value: title},
		)
	}

	body := portal.FilterNonEmpty(rawBody)
	if len(body) == 0 {
		return "", nil, fault.NewValidation(
			"body must have at least one non-empty paragraph",
			fault.FieldError{Field: "body", Message: "cannot be empty"},
		)
	}

	return title, body, nil
}

// resolveExcerpt derives the excerpt from the first paragraph when none is
// given, so a saved post never carries an empty one.
func (p Posts) resolveExcerpt(raw string, body []string) (string, error) {
	excerpt := strings.TrimSpace(raw)

	if excerpt == "" {
		if len(body) == 0 {
			return "", nil
		}

		return portal.ExcerptFrom(body[0], MaxExcerptLength), nil
	}

	if utf8.RuneCountInString(excerpt) > MaxExcerptLength {
		return "", fault.NewValidation(
			"excerpt cannot exceed 300 characters",
			fault.FieldError{Field: "excerpt", Message: "too long", Value: excerpt},
		)
	}

	return excerpt, nil
}

func imagesFrom(attrs []database.ImageAttrs) []database.PostImage {
	if len(attrs) == 0 {
		return nil
	}

	images := make([]database.PostImage, 0, len(attrs))
	for _, a := range attrs {
		images = append(images, imageFrom(a))
	}

	return images
}

func imageFrom(a database.ImageAttrs) database.PostImage {
	return database.PostImage{
		StorageName:  a.StorageName,
		OriginalName: a.OriginalName,
		Path:         a.Path,
		Size:         a.Size,
		MimeType:     a.MimeType,
	}
}
