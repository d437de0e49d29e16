package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/seatboard/pkg/models"
)

const postColumns = `id, author, title, text, created_at, published_at, image_ref`

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Posts ---

func (s *PostgresStore) CreatePost(ctx context.Context, post *models.Post) error {
	if post.Author == "" {
		post.Author = models.DefaultAuthor
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO posts (author, title, text, published_at, image_ref)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		post.Author, post.Title, post.Text, post.PublishedAt, post.ImageRef,
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	p, err := scanPost(s.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) UpdatePost(ctx context.Context, post *models.Post) error {
	if post.Author == "" {
		post.Author = models.DefaultAuthor
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE posts SET author = $2, title = $3, text = $4, published_at = $5, image_ref = $6
		 WHERE id = $1`,
		post.ID, post.Author, post.Title, post.Text, post.PublishedAt, post.ImageRef)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) PublishPost(ctx context.Context, id int64, at time.Time) (*models.Post, error) {
	p, err := scanPost(s.pool.QueryRow(ctx,
		`UPDATE posts SET published_at = $2 WHERE id = $1 RETURNING `+postColumns, id, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("publish post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) DeletePost(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListPublishedPosts(ctx context.Context, filter PostFilter) ([]*models.Post, int, error) {
	by := filter.PublishedBy
	if by.IsZero() {
		by = time.Now()
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts WHERE published_at <= $1`, by,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", err)
	}

	limit, offset := filter.Normalize()
	rows, err := s.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE published_at <= $1
		 ORDER BY published_at DESC, id DESC LIMIT $2 OFFSET $3`, by, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list published posts: %w", err)
	}
	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *PostgresStore) ListPublishedBetween(ctx context.Context, start, end time.Time) ([]*models.Post, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts
		 WHERE published_at >= $1 AND published_at <= $2
		 ORDER BY published_at ASC, id ASC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list posts in window: %w", err)
	}
	return collectPosts(rows)
}

func (s *PostgresStore) CountPublishedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts WHERE published_at >= $1`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count posts since: %w", err)
	}
	return n, nil
}

// --- Security Keys ---

func (s *PostgresStore) CreateSecurityKey(ctx context.Context, key *models.SecurityKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO security_keys (id, label, secret_hash, created_at) VALUES ($1, $2, $3, $4)`,
		key.ID, key.Label, key.SecretHash, key.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create security key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSecurityKeys(ctx context.Context) ([]*models.SecurityKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, label, secret_hash, created_at FROM security_keys ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("list security keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.SecurityKey
	for rows.Next() {
		var k models.SecurityKey
		if err := rows.Scan(&k.ID, &k.Label, &k.SecretHash, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan security key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) CountSecurityKeys(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM security_keys`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count security keys: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) DeleteSecurityKey(ctx context.Context, label string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM security_keys WHERE label = $1`, label)
	if err != nil {
		return fmt.Errorf("delete security key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.Author, &p.Title, &p.Text, &p.CreatedAt, &p.PublishedAt, &p.ImageRef); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]*models.Post, error) {
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
