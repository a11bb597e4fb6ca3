package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dvop/dvop-site/internal/domain"
)

func (db *DB) ListBlogPosts() ([]domain.BlogPost, error) {
	var posts []domain.BlogPost
	err := db.Select(&posts, "SELECT * FROM blog ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

func (db *DB) GetBlogPost(id int) (*domain.BlogPost, error) {
	var post domain.BlogPost
	err := db.Get(&post, "SELECT * FROM blog WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	return &post, nil
}

func (db *DB) CreateBlogPost(post *domain.BlogPost) error {
	query := `INSERT INTO blog (title, content, slug, description, published, tags, author, featured_image, created_at, updated_at)
		VALUES (:title, :content, :slug, :description, :published, :tags, :author, :featured_image, datetime('now'), datetime('now'))
		RETURNING id`

	rows, err := db.NamedQuery(query, post)
	if err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}
	defer rows.Close() //nolint:errcheck // deferred cleanup

	if rows.Next() {
		if err := rows.Scan(&post.ID); err != nil {
			return fmt.Errorf("failed to scan blog post id: %w", err)
		}
	} else if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating returning rows: %w", err)
	}

	return nil
}

func (db *DB) UpdateBlogPost(post *domain.BlogPost) error {
	query := `UPDATE blog SET
		title = :title, content = :content, slug = :slug, description = :description,
		published = :published, tags = :tags, author = :author, featured_image = :featured_image,
		updated_at = datetime('now')
		WHERE id = :id`

	result, err := db.NamedExec(query, post)
	if err != nil {
		return fmt.Errorf("failed to update blog post: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (db *DB) DeleteBlogPost(id int) error {
	_, err := db.Exec("DELETE FROM blog WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	return nil
}
