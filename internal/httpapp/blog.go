package httpapp

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/dvop/dvop-site/internal/domain"
)

var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

// deriveSlug turns a title into a URL slug: lowercase, non-alphanumeric
// runs collapsed to single hyphens, edges trimmed.
func deriveSlug(title string) string {
	slug := slugStripPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

type blogPostRequest struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Slug          string  `json:"slug"`
	Description   string  `json:"description"`
	Published     bool    `json:"published"`
	Tags          string  `json:"tags"`
	Author        string  `json:"author"`
	FeaturedImage *string `json:"featured_image"`
}

func (req *blogPostRequest) toPost() *domain.BlogPost {
	slug := req.Slug
	if slug == "" {
		slug = deriveSlug(req.Title)
	}
	tags := req.Tags
	if tags == "" {
		tags = "[]"
	}
	author := req.Author
	if author == "" {
		author = "dvop"
	}
	return &domain.BlogPost{
		ID:            req.ID,
		Title:         req.Title,
		Content:       req.Content,
		Slug:          slug,
		Description:   req.Description,
		Published:     req.Published,
		Tags:          tags,
		Author:        author,
		FeaturedImage: req.FeaturedImage,
	}
}

// ListBlogPosts returns every post, newest first.
func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		h.writeError(w, http.StatusInternalServerError, "Database not available")
		return
	}

	posts, err := h.DB.ListBlogPosts()
	if err != nil {
		h.Logger.Error("failed to list blog posts", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	if posts == nil {
		posts = []domain.BlogPost{}
	}

	h.writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if h.DB == nil {
		h.writeError(w, http.StatusInternalServerError, "Database not available")
		return
	}

	var req blogPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}
	if req.Title == "" {
		h.writeError(w, http.StatusBadRequest, "Post title is required")
		return
	}

	if err := h.DB.CreateBlogPost(req.toPost()); err != nil {
		h.Logger.Error("failed to create blog post", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"message": "Post created successfully"})
}

func (h *Handler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if h.DB == nil {
		h.writeError(w, http.StatusInternalServerError, "Database not available")
		return
	}

	var req blogPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}
	if req.ID == 0 {
		h.writeError(w, http.StatusBadRequest, "Post ID is required")
		return
	}

	if err := h.DB.UpdateBlogPost(req.toPost()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		h.Logger.Error("failed to update blog post", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Post updated successfully"})
}

func (h *Handler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if h.DB == nil {
		h.writeError(w, http.StatusInternalServerError, "Database not available")
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id == 0 {
		h.writeError(w, http.StatusBadRequest, "Post ID is required")
		return
	}

	if err := h.DB.DeleteBlogPost(id); err != nil {
		h.Logger.Error("failed to delete blog post", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
