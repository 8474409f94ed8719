package handler

import (
	"io"
	"mime/multipart"
	baseHttp "net/http"
	"strings"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
	"github.com/inkwell/database/repository/pagination"
	"github.com/inkwell/handler/paginate"
	"github.com/inkwell/handler/payload"
	"github.com/inkwell/pkg/endpoint"
	"github.com/inkwell/pkg/media"
	"github.com/inkwell/pkg/middleware"
	"github.com/inkwell/pkg/portal"
)

const maxMultipartMemory = 32 << 20

// AdminPostsHandler owns the authenticated write side: create, update and
// delete, including the compensation protocol that keeps the file store and
// the database consistent when one of them fails.
type AdminPostsHandler struct {
	Posts     *repository.Posts
	Media     *media.LocalStore
	Validator *portal.Validator
}

func MakeAdminPostsHandler(posts *repository.Posts, store *media.LocalStore) AdminPostsHandler {
	return AdminPostsHandler{
		Posts:     posts,
		Media:     store,
		Validator: portal.GetDefaultValidator(),
	}
}

func (h AdminPostsHandler) Index(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	filters := payload.GetPostsFiltersFrom(r, true)
	paging := paginate.MakeFrom(r.URL.Query())

	page, err := h.Posts.GetPosts(r.Context(), filters, paging, repository.VisibilityAny)
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

// Show returns any post regardless of status and never bumps the view count.
func (h AdminPostsHandler) Show(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	uuid := payload.GetUUIDFrom(r)
	if uuid == "" {
		return endpoint.BadRequestError("missing post id")
	}

	post, err := h.Posts.FindBy(r.Context(), uuid, repository.VisibilityAny)
	if err != nil {
		return endpoint.FromFault(err)
	}

	response := endpoint.NewNoCacheResponse(w, r)

	if err := response.RespondOk(payload.GetPostResponse(*post)); err != nil {
		return endpoint.LogInternalError("could not encode post", err)
	}

	return nil
}

func (h AdminPostsHandler) Store(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	actor := middleware.GetActor(r.Context())
	if actor == nil {
		return endpoint.UnauthorisedError("missing authenticated administrator")
	}

	req, files, apiErr := h.parseCreateRequest(r)
	if apiErr != nil {
		return apiErr
	}

	if rejects, fields := h.Validator.Rejects(req); rejects {
		return endpoint.UnprocessableEntity("invalid post payload", fields)
	}

	// Uploads land on disk first; if anything downstream refuses the write
	// they are removed again so no orphaned file survives the request.
	assets, apiErr := h.storeUploads(files)
	if apiErr != nil {
		return apiErr
	}

	post, err := h.Posts.Create(r.Context(), database.PostAttrs{
		AuthorID: actor.ID,
		Title:    req.Title,
		Body:     req.Body,
		Excerpt:  req.Excerpt,
		Tags:     req.Tags,
		Status:   req.Status,
		Images:   imageAttrsFrom(assets),
	})
	if err != nil {
		h.Media.RemoveAll(storageNamesOf(assets))

		return endpoint.FromFault(err)
	}

	response := endpoint.NewNoCacheResponse(w, r)

	if err := response.RespondCreated(payload.GetPostResponse(*post)); err != nil {
		return endpoint.LogInternalError("could not encode post", err)
	}

	return nil
}

func (h AdminPostsHandler) Update(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	actor := middleware.GetActor(r.Context())
	if actor == nil {
		return endpoint.UnauthorisedError("missing authenticated administrator")
	}

	uuid := payload.GetUUIDFrom(r)
	if uuid == "" {
		return endpoint.BadRequestError("missing post id")
	}

	req, files, apiErr := h.parseUpdateRequest(r)
	if apiErr != nil {
		return apiErr
	}

	if rejects, fields := h.Validator.Rejects(req); rejects {
		return endpoint.UnprocessableEntity("invalid post payload", fields)
	}

	assets, apiErr := h.storeUploads(files)
	if apiErr != nil {
		return apiErr
	}

	post, err := h.Posts.Update(r.Context(), uuid, database.PostPatch{
		Title:   req.Title,
		Body:    req.Body,
		Excerpt: req.Excerpt,
		Tags:    req.Tags,
		Status:  req.Status,
		Images:  imageAttrsFrom(assets),
	}, actor)
	if err != nil {
		h.Media.RemoveAll(storageNamesOf(assets))

		return endpoint.FromFault(err)
	}

	response := endpoint.NewNoCacheResponse(w, r)

	if err := response.RespondOk(payload.GetPostResponse(*post)); err != nil {
		return endpoint.LogInternalError("could not encode post", err)
	}

	return nil
}

// Delete removes the record first, then releases its files. The record is the
// authoritative side: a failed file removal is logged inside the store and
// never turns a successful delete into an error.
func (h AdminPostsHandler) Delete(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	actor := middleware.GetActor(r.Context())
	if actor == nil {
		return endpoint.UnauthorisedError("missing authenticated administrator")
	}

	uuid := payload.GetUUIDFrom(r)
	if uuid == "" {
		return endpoint.BadRequestError("missing post id")
	}

	orphans, err := h.Posts.Delete(r.Context(), uuid, actor)
	if err != nil {
		return endpoint.FromFault(err)
	}

	names := make([]string, 0, len(orphans))
	for _, orphan := range orphans {
		names = append(names, orphan.StorageName)
	}

	h.Media.RemoveAll(names)

	response := endpoint.NewNoCacheResponse(w, r)

	if err := response.RespondOk(payload.MessageResponse{Success: true, Message: "post deleted"}); err != nil {
		return endpoint.LogInternalError("could not encode response", err)
	}

	return nil
}

func (h AdminPostsHandler) parseCreateRequest(r *baseHttp.Request) (payload.CreatePostRequest, []*multipart.FileHeader, *endpoint.ApiError) {
	var req payload.CreatePostRequest

	if !isMultipart(r) {
		parsed, closer, err := endpoint.ParseRequestBody[payload.CreatePostRequest](r)
		defer closer()

		if err != nil {
			return req, nil, endpoint.LogBadRequestError("invalid request body", err)
		}

		return parsed, nil, nil
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return req, nil, endpoint.LogBadRequestError("invalid multipart form", err)
	}

	form := r.MultipartForm

	req.Title = firstValue(form, "title")
	req.Body = portal.FilterNonEmpty(form.Value["body"])
	req.Excerpt = firstValue(form, "excerpt")
	req.Tags = portal.FilterNonEmpty(form.Value["tags"])
	req.Status = firstValue(form, "status")

	return req, form.File["images"], nil
}

func (h AdminPostsHandler) parseUpdateRequest(r *baseHttp.Request) (payload.UpdatePostRequest, []*multipart.FileHeader, *endpoint.ApiError) {
	var req payload.UpdatePostRequest

	if !isMultipart(r) {
		parsed, closer, err := endpoint.ParseRequestBody[payload.UpdatePostRequest](r)
		defer closer()

		if err != nil {
			return req, nil, endpoint.LogBadRequestError("invalid request body", err)
		}

		return parsed, nil, nil
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return req, nil, endpoint.LogBadRequestError("invalid multipart form", err)
	}

	form := r.MultipartForm

	// Form fields carry explicit presence: a key that was not sent leaves
	// the matching post field alone.
	if values, ok := form.Value["title"]; ok && len(values) > 0 {
		req.Title = &values[0]
	}

	if values, ok := form.Value["body"]; ok {
		body := portal.FilterNonEmpty(values)
		req.Body = &body
	}

	if values, ok := form.Value["excerpt"]; ok && len(values) > 0 {
		req.Excerpt = &values[0]
	}

	if values, ok := form.Value["tags"]; ok {
		tags := portal.FilterNonEmpty(values)
		req.Tags = &tags
	}

	if values, ok := form.Value["status"]; ok && len(values) > 0 {
		req.Status = &values[0]
	}

	return req, form.File["images"], nil
}

// storeUploads writes every upload to the file store. The first failure
// removes what was already written and aborts the request.
func (h AdminPostsHandler) storeUploads(files []*multipart.FileHeader) ([]media.Asset, *endpoint.ApiError) {
	if len(files) == 0 {
		return nil, nil
	}

	assets := make([]media.Asset, 0, len(files))

	for _, header := range files {
		data, err := readUpload(header)
		if err != nil {
			h.Media.RemoveAll(storageNamesOf(assets))

			return nil, endpoint.LogBadRequestError("could not read uploaded file", err)
		}

		asset, err := h.Media.Store(data, header.Filename)
		if err != nil {
			h.Media.RemoveAll(storageNamesOf(assets))

			return nil, endpoint.FromFault(err)
		}

		assets = append(assets, *asset)
	}

	return assets, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}

	defer portal.CloseWithLog(file)

	return io.ReadAll(file)
}

func isMultipart(r *baseHttp.Request) bool {
	contentType := r.Header.Get("Content-Type")

	return strings.HasPrefix(contentType, "multipart/form-data")
}

func firstValue(form *multipart.Form, key string) string {
	if values, ok := form.Value[key]; ok && len(values) > 0 {
		return values[0]
	}

	return ""
}

func imageAttrsFrom(assets []media.Asset) []database.ImageAttrs {
	if len(assets) == 0 {
		return nil
	}

	attrs := make([]database.ImageAttrs, 0, len(assets))
	for _, asset := range assets {
		attrs = append(attrs, database.ImageAttrs{
			StorageName:  asset.StorageName,
			OriginalName: asset.OriginalName,
			Path:         asset.Path,
			Size:         asset.Size,
			MimeType:     asset.MimeType,
		})
	}

	return attrs
}

func storageNamesOf(assets []media.Asset) []string {
	names := make([]string, 0, len(assets))

	for _, asset := range assets {
		names = append(names, asset.StorageName)
	}

	return names
}
