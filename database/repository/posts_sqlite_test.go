package repository_test

import (
	"context"
	"strings"
	"testing"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
	"github.com/inkwell/database/repository/pagination"
	"github.com/inkwell/database/repository/queries"
	"github.com/inkwell/pkg/fault"
)

func TestPostsCreateDefaultsSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "alice", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	post, err := postsRepo.Create(context.Background(), database.PostAttrs{
		AuthorID: author.ID,
		Title:    "  Héllo, Wörld!  ",
		Body:     []string{"First paragraph.", "", "Second paragraph."},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if post.ID == 0 || post.UUID == "" {
		t.Fatalf("expected persisted post with identifiers")
	}

	if post.Slug != "hello-world" {
		t.Fatalf("expected normalised slug, got %q", post.Slug)
	}

	if post.Title != "Héllo, Wörld!" {
		t.Fatalf("expected trimmed title, got %q", post.Title)
	}

	if post.Status != database.StatusDraft {
		t.Fatalf("expected draft by default, got %q", post.Status)
	}

	if post.PublishedAt != nil {
		t.Fatalf("expected nil publishedAt for a draft")
	}

	if post.Excerpt != "First paragraph." {
		t.Fatalf("expected excerpt derived from first paragraph, got %q", post.Excerpt)
	}

	if got := post.Paragraphs(); len(got) != 2 || got[1] != "Second paragraph." {
		t.Fatalf("expected empty paragraphs dropped, got %v", got)
	}

	if post.Author.ID != author.ID {
		t.Fatalf("expected author association to load")
	}
}

func TestPostsCreateDerivesLongExcerptSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "bob", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	first := strings.Repeat("a", 400)

	post, err := postsRepo.Create(context.Background(), database.PostAttrs{
		AuthorID: author.ID,
		Title:    "Long Read",
		Body:     []string{first, "tail"},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if want := strings.Repeat("a", 300) + "..."; post.Excerpt != want {
		t.Fatalf("expected truncated excerpt of %d chars, got %d", len(want), len(post.Excerpt))
	}
}

func TestPostsCreatePublishedSetsTimestampSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "carol", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	post := seedPost(t, postsRepo, author, "Launch Day", database.StatusPublished)

	if post.PublishedAt == nil {
		t.Fatalf("expected publishedAt to be set on publish")
	}

	if !post.IsPublished() {
		t.Fatalf("expected post to report published")
	}
}

func TestPostsCreateRejectsInvalidInputSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "dave", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	cases := []struct {
		name  string
		attrs database.PostAttrs
	}{
		{"blank title", database.PostAttrs{AuthorID: author.ID, Title: "   ", Body: []string{"text"}}},
		{"empty body", database.PostAttrs{AuthorID: author.ID, Title: "Valid", Body: []string{"", "  "}}},
		{"overlong title", database.PostAttrs{AuthorID: author.ID, Title: strings.Repeat("x", 201), Body: []string{"text"}}},
		{"bad status", database.PostAttrs{AuthorID: author.ID, Title: "Valid", Body: []string{"text"}, Status: "archived"}},
		{"unsluggable title", database.PostAttrs{AuthorID: author.ID, Title: "!!!", Body: []string{"text"}}},
	}

	for _, c := range cases {
		if _, err := postsRepo.Create(context.Background(), c.attrs); !fault.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", c.name, err)
		}
	}
}

func TestPostsCreateDuplicateSlugConflictSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "erin", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	seedPost(t, postsRepo, author, "My First Post", database.StatusDraft)

	// Different casing and punctuation, same slug.
	_, err := postsRepo.Create(context.Background(), database.PostAttrs{
		AuthorID: author.ID,
		Title:    "my first POST!",
		Body:     []string{"another body"},
	})

	if !fault.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate slug, got %v", err)
	}
}

func TestPostsUpdatePatchSemanticsSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "frank", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	post := seedPost(t, postsRepo, author, "Original Title", database.StatusDraft)

	title := "Renamed Title"
	tags := []string{"renamed"}

	updated, err := postsRepo.Update(context.Background(), post.UUID, database.PostPatch{
		Title: &title,
		Tags:  &tags,
	}, &author)
	if err != nil {
		t.Fatalf("update post: %v", err)
	}

	if updated.Title != title || updated.Slug != "renamed-title" {
		t.Fatalf("expected title change to recompute slug, got %q / %q", updated.Title, updated.Slug)
	}

	if len(updated.Tags) != 1 || updated.Tags[0] != "renamed" {
		t.Fatalf("expected tags replaced, got %v", updated.Tags)
	}

	// Absent fields stay untouched.
	if got := updated.Paragraphs(); len(got) != 2 {
		t.Fatalf("expected body untouched, got %v", got)
	}

	empty := ""
	if _, err := postsRepo.Update(context.Background(), post.UUID, database.PostPatch{Title: &empty}, &author); !fault.IsValidation(err) {
		t.Fatalf("expected explicit empty title to be rejected, got %v", err)
	}
}

func TestPostsUpdatePublishedAtSetOnceSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "grace", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	post := seedPost(t, postsRepo, author, "Toggle Me", database.StatusDraft)

	published := database.StatusPublished
	draft := database.StatusDraft

	first, err := postsRepo.Update(context.Background(), post.UUID, database.PostPatch{Status: &published}, &author)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if first.PublishedAt == nil {
		t.Fatalf("expected publishedAt on first publish")
	}

	stamp := *first.PublishedAt

	if _, err := postsRepo.Update(context.Background(), post.UUID, database.PostPatch{Status: &draft}, &author); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	second, err := postsRepo.Update(context.Background(), post.UUID, database.PostPatch{Status: &published}, &author)
	if err != nil {
		t.Fatalf("republish: %v", err)
	}

	if second.PublishedAt == nil || !second.PublishedAt.Equal(stamp) {
		t.Fatalf("expected publishedAt to survive re-publish, got %v want %v", second.PublishedAt, stamp)
	}
}

func TestPostsUpdateOwnershipSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	owner := seedAdmin(t, conn, "henry", database.RoleAdmin)
	other := seedAdmin(t, conn, "iris", database.RoleAdmin)
	root := seedAdmin(t, conn, "root", database.RoleSuperAdmin)

	postsRepo := repository.Posts{DB: conn}
	post := seedPost(t, postsRepo, owner, "Guarded Post", database.StatusDraft)

	title := "Hijacked"
	if _, err := postsRepo.Update(context.Background(), post.UUID, database.PostPatch{Title: &title}, &other); !fault.IsForbidden(err) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	title = "Moderated"
	if _, err := postsRepo.Update(context.Background(), post.UUID, database.PostPatch{Title: &title}, &root); err != nil {
		t.Fatalf("expected super admin to modify any post: %v", err)
	}

	if _, err := postsRepo.Delete(context.Background(), post.UUID, &other); !fault.IsForbidden(err) {
		t.Fatalf("expected forbidden delete for non-owner, got %v", err)
	}
}

func TestPostsUpdateAppendsImagesSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "jane", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	post := seedPost(t, postsRepo, author, "Gallery", database.StatusDraft)

	withOne, err := postsRepo.Update(context.Background(), post.UUID, database.PostPatch{
		Images: []database.ImageAttrs{{
			StorageName:  "aaa.png",
			OriginalName: "cover.png",
			Path:         "/uploads/aaa.png",
			Size:         512,
			MimeType:     "image/png",
		}},
	}, &author)
	if err != nil {
		t.Fatalf("attach first image: %v", err)
	}

	if len(withOne.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(withOne.Images))
	}

	withTwo, err := postsRepo.Update(context.Background(), post.UUID, database.PostPatch{
		Images: []database.ImageAttrs{{
			StorageName:  "bbb.jpg",
			OriginalName: "photo.jpg",
			Path:         "/uploads/bbb.jpg",
			Size:         1024,
			MimeType:     "image/jpeg",
		}},
	}, &author)
	if err != nil {
		t.Fatalf("attach second image: %v", err)
	}

	if len(withTwo.Images) != 2 {
		t.Fatalf("expected images to append, got %d", len(withTwo.Images))
	}

	if withTwo.Images[0].StorageName != "aaa.png" || withTwo.Images[1].StorageName != "bbb.jpg" {
		t.Fatalf("expected attachment order preserved, got %v", withTwo.Images)
	}
}

func TestPostsDeleteReturnsOrphanedAssetsSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "kate", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	post, err := postsRepo.Create(context.Background(), database.PostAttrs{
		AuthorID: author.ID,
		Title:    "Short Lived",
		Body:     []string{"body"},
		Images: []database.ImageAttrs{{
			StorageName:  "ccc.gif",
			OriginalName: "anim.gif",
			Path:         "/uploads/ccc.gif",
			Size:         2048,
			MimeType:     "image/gif",
		}},
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	orphans, err := postsRepo.Delete(context.Background(), post.UUID, &author)
	if err != nil {
		t.Fatalf("delete post: %v", err)
	}

	if len(orphans) != 1 || orphans[0].StorageName != "ccc.gif" {
		t.Fatalf("expected orphaned asset references, got %v", orphans)
	}

	if _, err := postsRepo.FindBy(context.Background(), post.UUID, repository.VisibilityAny); !fault.IsNotFound(err) {
		t.Fatalf("expected post gone, got %v", err)
	}

	var images int64
	if err := conn.Sql().Model(&database.PostImage{}).Count(&images).Error; err != nil {
		t.Fatalf("count images: %v", err)
	}

	if images != 0 {
		t.Fatalf("expected image rows removed, got %d", images)
	}
}

func TestPostsVisibilityScopesSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "liam", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	draft := seedPost(t, postsRepo, author, "Hidden Draft", database.StatusDraft)
	live := seedPost(t, postsRepo, author, "Live Post", database.StatusPublished)

	if _, err := postsRepo.FindBy(context.Background(), draft.UUID, repository.VisibilityPublic); !fault.IsNotFound(err) {
		t.Fatalf("expected draft hidden from public lookup, got %v", err)
	}

	if _, err := postsRepo.FindBySlug(context.Background(), draft.Slug, repository.VisibilityPublic); !fault.IsNotFound(err) {
		t.Fatalf("expected draft hidden from public slug lookup, got %v", err)
	}

	if found, err := postsRepo.FindBy(context.Background(), draft.UUID, repository.VisibilityAny); err != nil || found.UUID != draft.UUID {
		t.Fatalf("expected admin lookup to see draft: %v", err)
	}

	page, err := postsRepo.GetPosts(context.Background(), nil, pagination.Paginate{Page: 1, Limit: 10}, repository.VisibilityPublic)
	if err != nil {
		t.Fatalf("public list: %v", err)
	}

	if page.Pagination.Total != 1 || len(page.Items) != 1 || page.Items[0].UUID != live.UUID {
		t.Fatalf("expected public listing with only the published post, got %+v", page.Pagination)
	}

	// Public summaries never carry the body column.
	if page.Items[0].Content != "" {
		t.Fatalf("expected content omitted from public listing")
	}

	adminPage, err := postsRepo.GetPosts(context.Background(), nil, pagination.Paginate{Page: 1, Limit: 10}, repository.VisibilityAny)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}

	if adminPage.Pagination.Total != 2 {
		t.Fatalf("expected admin listing to include drafts, got %d", adminPage.Pagination.Total)
	}
}

func TestPostsPublicReadCountsViewsSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "maya", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	post := seedPost(t, postsRepo, author, "Popular Post", database.StatusPublished)

	for i := 0; i < 5; i++ {
		if _, err := postsRepo.FindBySlug(context.Background(), post.Slug, repository.VisibilityPublic); err != nil {
			t.Fatalf("public read %d: %v", i, err)
		}
	}

	// Admin reads never count.
	if _, err := postsRepo.FindBy(context.Background(), post.UUID, repository.VisibilityAny); err != nil {
		t.Fatalf("admin read: %v", err)
	}

	found, err := postsRepo.FindBy(context.Background(), post.UUID, repository.VisibilityAny)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	if found.ViewCount != 5 {
		t.Fatalf("expected 5 views, got %d", found.ViewCount)
	}
}

func TestPostsSearchAndFiltersSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "nina", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	seedPost(t, postsRepo, author, "Gopher Patterns", database.StatusPublished)
	seedPost(t, postsRepo, author, "Rustacean Notes", database.StatusPublished)
	seedPost(t, postsRepo, author, "Gopher Drafting", database.StatusDraft)

	paginate := pagination.Paginate{Page: 1, Limit: 10}

	page, err := postsRepo.GetPosts(
		context.Background(),
		&queries.PostFilters{Text: "GOPHER"},
		paginate,
		repository.VisibilityPublic,
	)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if page.Pagination.Total != 1 || page.Items[0].Slug != "gopher-patterns" {
		t.Fatalf("expected case-insensitive title match on published posts only, got %+v", page.Pagination)
	}

	adminPage, err := postsRepo.GetPosts(
		context.Background(),
		&queries.PostFilters{Text: "gopher", Status: database.StatusDraft},
		paginate,
		repository.VisibilityAny,
	)
	if err != nil {
		t.Fatalf("filtered admin list: %v", err)
	}

	if adminPage.Pagination.Total != 1 || adminPage.Items[0].Slug != "gopher-drafting" {
		t.Fatalf("expected status filter to narrow search, got %+v", adminPage.Pagination)
	}

	tagPage, err := postsRepo.GetPosts(
		context.Background(),
		&queries.PostFilters{Text: "testing"},
		paginate,
		repository.VisibilityPublic,
	)
	if err != nil {
		t.Fatalf("tag search: %v", err)
	}

	if tagPage.Pagination.Total != 2 {
		t.Fatalf("expected tag match across published posts, got %d", tagPage.Pagination.Total)
	}
}

func TestPostsPaginationWindowsSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	author := seedAdmin(t, conn, "omar", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	titles := []string{"One", "Two", "Three", "Four", "Five"}
	for _, title := range titles {
		seedPost(t, postsRepo, author, "Page Post "+title, database.StatusPublished)
	}

	first, err := postsRepo.GetPosts(context.Background(), nil, pagination.Paginate{Page: 1, Limit: 2}, repository.VisibilityPublic)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}

	if first.Pagination.Total != 5 || first.Pagination.Pages != 3 || len(first.Items) != 2 {
		t.Fatalf("unexpected first page: %+v", first.Pagination)
	}

	last, err := postsRepo.GetPosts(context.Background(), nil, pagination.Paginate{Page: 3, Limit: 2}, repository.VisibilityPublic)
	if err != nil {
		t.Fatalf("last page: %v", err)
	}

	if len(last.Items) != 1 {
		t.Fatalf("expected single item on last page, got %d", len(last.Items))
	}

	beyond, err := postsRepo.GetPosts(context.Background(), nil, pagination.Paginate{Page: 9, Limit: 2}, repository.VisibilityPublic)
	if err != nil {
		t.Fatalf("page beyond range: %v", err)
	}

	if len(beyond.Items) != 0 || beyond.Pagination.Total != 5 {
		t.Fatalf("expected empty window with stable total, got %+v", beyond.Pagination)
	}
}

func TestPostsUpdateMissingPostSQLite(t *testing.T) {
	conn, db := newSQLiteConnection(t)
	migrateSchema(t, db)

	actor := seedAdmin(t, conn, "pete", database.RoleAdmin)
	postsRepo := repository.Posts{DB: conn}

	title := "Anything"
	if _, err := postsRepo.Update(context.Background(), "missing-uuid", database.PostPatch{Title: &title}, &actor); !fault.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err := postsRepo.Delete(context.Background(), "missing-uuid", &actor); !fault.IsNotFound(err) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}
