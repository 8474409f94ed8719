package handler

import (
	"fmt"
	baseHttp "net/http"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
	"github.com/inkwell/database/repository/pagination"
	"github.com/inkwell/handler/paginate"
	"github.com/inkwell/handler/payload"
	"github.com/inkwell/pkg/endpoint"
)

// PostsHandler serves the public, read-only side of the catalogue: published
// posts only, with view counting on single fetches.
type PostsHandler struct {
	Posts *repository.Posts
}

func MakePostsHandler(posts *repository.Posts) PostsHandler {
	return PostsHandler{
		Posts: posts,
	}
}

func (h PostsHandler) Index(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	filters := payload.GetPostsFiltersFrom(r, false)
	paging := paginate.MakeFrom(r.URL.Query())

	page, err := h.Posts.GetPosts(r.Context(), filters, paging, repository.VisibilityPublic)
	if err != nil {
		return endpoint.FromFault(err)
	}

	resp := pagination.HydratePage(page, payload.GetPostSummaryResponse)

	response := endpoint.NewNoCacheResponse(w, r)

	if err := response.RespondOk(resp); err != nil {
		return endpoint.LogInternalError("could not encode posts listing", err)
	}

	return nil
}

func (h PostsHandler) Show(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	uuid := payload.GetUUIDFrom(r)
	if uuid == "" {
		return endpoint.BadRequestError("missing post id")
	}

	post, err := h.Posts.FindBy(r.Context(), uuid, repository.VisibilityPublic)
	if err != nil {
		return endpoint.FromFault(err)
	}

	return h.respondWithPost(w, r, post)
}

func (h PostsHandler) ShowBySlug(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	slug := payload.GetSlugFrom(r)
	if slug == "" {
		return endpoint.BadRequestError("missing post slug")
	}

	post, err := h.Posts.FindBySlug(r.Context(), slug, repository.VisibilityPublic)
	if err != nil {
		return endpoint.FromFault(err)
	}

	return h.respondWithPost(w, r, post)
}

// respondWithPost writes the full post with a weak freshness tag. The view
// was already counted by the lookup, so a 304 here still registers the read.
func (h PostsHandler) respondWithPost(w baseHttp.ResponseWriter, r *baseHttp.Request, post *database.Post) *endpoint.ApiError {
	salt := fmt.Sprintf("%s:%d", post.UUID, post.UpdatedAt.UTC().Unix())

	response := endpoint.NewResponseFrom(salt, w, r)

	if response.HasCache() {
		response.RespondWithNotModified()

		return nil
	}

	if err := response.RespondOk(payload.GetPostResponse(*post)); err != nil {
		return endpoint.LogInternalError("could not encode post", err)
	}

	return nil
}
