// internal/services/post_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// PostService manages the blog. Posts publish explicitly, and only published
// posts are visible to non-admin readers.
type PostService struct {
	db             *gorm.DB
	storageService *StorageService
}

type CreatePostRequest struct {
	Title      string   `json:"title" validate:"required,min=3,max=255"`
	Excerpt    string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Body       string   `json:"body" validate:"required,min=10"`
	CoverImage string   `json:"cover_image,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Publish    bool     `json:"publish,omitempty"`
}

type UpdatePostRequest struct {
	Title      *string  `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Excerpt    *string  `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Body       *string  `json:"body,omitempty" validate:"omitempty,min=10"`
	CoverImage *string  `json:"cover_image,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

type PostSearchParams struct {
	utils.PaginationParams
	AuthorID *uuid.UUID         `json:"author_id,omitempty"`
	Status   *models.PostStatus `json:"status,omitempty"`
}

func NewPostService(db *gorm.DB, storageService *StorageService) *PostService {
	return &PostService{db: db, storageService: storageService}
}

func (s *PostService) CreatePost(authorID uuid.UUID, req *CreatePostRequest) (*models.Post, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var author models.User
	if err := s.db.First(&author, authorID).Error; err != nil {
		return nil, fmt.Errorf("author not found: %w", err)
	}
	if author.Status != models.UserStatusActive {
		return nil, errors.New("author account is not active")
	}

	slug := utils.UniqueSlug(req.Title, func(candidate string) bool {
		var count int64
		s.db.Model(&models.Post{}).Where("slug = ?", candidate).Count(&count)
		return count > 0
	})

	post := &models.Post{
		AuthorID:   authorID,
		Title:      req.Title,
		Slug:       slug,
		Excerpt:    req.Excerpt,
		Body:       req.Body,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Status:     models.PostStatusDraft,
	}

	if req.Publish {
		now := time.Now()
		post.Status = models.PostStatusPublished
		post.PublishedAt = &now
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.db.Preload("Author").First(post, post.ID)
	return post, nil
}

// GetPostBySlug is the public read path. Drafts stay hidden and published
// reads count toward view_count.
func (s *PostService) GetPostBySlug(slug string) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Author").
		Where("slug = ?", slug).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("post not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !post.IsPublished() {
		return nil, errors.New("post not found")
	}

	go s.incrementViewCount(post.ID)
	return &post, nil
}

func (s *PostService) GetPost(id uuid.UUID, isAdmin bool) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("post not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !post.IsPublished() && !isAdmin {
		return nil, errors.New("post not found")
	}
	return &post, nil
}

func (s *PostService) UpdatePost(id uuid.UUID, authorID uuid.UUID, isAdmin bool, req *UpdatePostRequest) (*models.Post, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("post not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if post.AuthorID != authorID && !isAdmin {
		return nil, errors.New("unauthorized to update this post")
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Excerpt != nil {
		updates["excerpt"] = *req.Excerpt
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.CoverImage != nil {
		updates["cover_image"] = *req.CoverImage
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&post).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update post: %w", err)
		}
	}

	s.db.Preload("Author").First(&post, id)
	return &post, nil
}

// PublishPost moves a draft to published. PublishedAt is set once and kept on
// republish after an unpublish.
func (s *PostService) PublishPost(id uuid.UUID, authorID uuid.UUID, isAdmin bool) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("post not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if post.AuthorID != authorID && !isAdmin {
		return nil, errors.New("unauthorized to publish this post")
	}

	updates := map[string]interface{}{"status": models.PostStatusPublished}
	if post.PublishedAt == nil {
		updates["published_at"] = time.Now()
	}

	if err := s.db.Model(&post).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to publish post: %w", err)
	}
	return s.GetPost(id, true)
}

func (s *PostService) UnpublishPost(id uuid.UUID, authorID uuid.UUID, isAdmin bool) error {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("post not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if post.AuthorID != authorID && !isAdmin {
		return errors.New("unauthorized to unpublish this post")
	}
	return s.db.Model(&post).Update("status", models.PostStatusDraft).Error
}

func (s *PostService) DeletePost(id uuid.UUID, authorID uuid.UUID, isAdmin bool) error {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("post not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if post.AuthorID != authorID && !isAdmin {
		return errors.New("unauthorized to delete this post")
	}
	return s.db.Delete(&post).Error
}

// SearchPosts lists posts. Non-admin callers only see published posts,
// newest first by publish date.
func (s *PostService) SearchPosts(params PostSearchParams, isAdmin bool) ([]models.Post, int64, error) {
	query := s.db.Model(&models.Post{}).Preload("Author")

	if params.Status != nil && isAdmin {
		query = query.Where("status = ?", *params.Status)
	} else if !isAdmin {
		query = query.Where("status = ?", models.PostStatusPublished)
	}

	if params.AuthorID != nil {
		query = query.Where("author_id = ?", *params.AuthorID)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(body) LIKE ?", searchTerm, searchTerm)
	}
	if params.Tag != "" {
		query = query.Where("? = ANY(tags)", params.Tag)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	allowedSortFields := []string{"created_at", "published_at", "title", "view_count"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return posts, total, nil
}

func (s *PostService) incrementViewCount(postID uuid.UUID) {
	s.db.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
}
