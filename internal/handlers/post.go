// internal/handlers/post.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/merchkit/storefront-backend/internal/i18n"
	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/services"
	"github.com/merchkit/storefront-backend/internal/utils"
)

type PostHandler struct {
	postService    *services.PostService
	storageService *services.StorageService
}

func NewPostHandler(postService *services.PostService, storageService *services.StorageService) *PostHandler {
	return &PostHandler{
		postService:    postService,
		storageService: storageService,
	}
}

// GET /posts
func (h *PostHandler) GetPosts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.PostSearchParams{
		PaginationParams: params,
	}

	isAdmin := isAdminContext(c)

	if status := c.Query("status"); status != "" && isAdmin {
		postStatus := models.PostStatus(status)
		searchParams.Status = &postStatus
	}

	if authorIDStr := c.Query("author_id"); authorIDStr != "" {
		if authorID, err := uuid.Parse(authorIDStr); err == nil {
			searchParams.AuthorID = &authorID
		}
	}

	posts, total, err := h.postService.SearchPosts(searchParams, isAdmin)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(posts, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /posts/slug/:slug
func (h *PostHandler) GetPostBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		utils.BadRequestResponse(c, "Missing post slug", nil)
		return
	}

	post, err := h.postService.GetPostBySlug(slug)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyPostNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"post": post})
}

// GET /posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid post ID", nil)
		return
	}

	post, err := h.postService.GetPost(id, isAdminContext(c))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyPostNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"post": post})
}

// POST /admin/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	authorID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	post, err := h.postService.CreatePost(authorID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPostCreated),
		"post":    post,
	})
}

// PUT /admin/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid post ID", nil)
		return
	}

	authorID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	post, err := h.postService.UpdatePost(id, authorID, isAdminContext(c), &req)
	if err != nil {
		h.respondPostError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPostUpdated),
		"post":    post,
	})
}

// POST /admin/posts/:id/publish
func (h *PostHandler) PublishPost(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid post ID", nil)
		return
	}

	authorID, ok := requireUserID(c)
	if !ok {
		return
	}

	post, err := h.postService.PublishPost(id, authorID, isAdminContext(c))
	if err != nil {
		h.respondPostError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPostPublished),
		"post":    post,
	})
}

// POST /admin/posts/:id/unpublish
func (h *PostHandler) UnpublishPost(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid post ID", nil)
		return
	}

	authorID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.postService.UnpublishPost(id, authorID, isAdminContext(c)); err != nil {
		h.respondPostError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPostUpdated),
	})
}

// DELETE /admin/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid post ID", nil)
		return
	}

	authorID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(id, authorID, isAdminContext(c)); err != nil {
		h.respondPostError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPostDeleted),
	})
}

// POST /admin/posts/upload-cover
func (h *PostHandler) UploadCoverImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), err.Error())
		return
	}

	options := h.storageService.GetDefaultUploadOptions("posts")
	result, err := h.storageService.UploadFile(file, fileHeader, options)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"image": gin.H{
			"url":       result.URL,
			"key":       result.Key,
			"size":      result.Size,
			"mime_type": result.MimeType,
		},
	})
}

func (h *PostHandler) respondPostError(c *gin.Context, err error) {
	switch {
	case strings.Contains(err.Error(), "unauthorized"):
		utils.ForbiddenResponse(c, err.Error())
	case strings.Contains(err.Error(), "not found"):
		utils.NotFoundResponse(c, i18n.KeyPostNotFound)
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
