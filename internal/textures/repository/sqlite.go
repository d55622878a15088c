package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"planviewer/internal/textures/models"
)

// ErrNotFound возвращается, если текстура не найдена.
var ErrNotFound = errors.New("texture not found")

//go:embed migrations/*.sql
var migrations embed.FS

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет встроенные миграции.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

const textureColumns = `id, handle, filename, description, mime_type, created_at`

func (r *Repository) List(ctx context.Context) ([]models.Texture, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+textureColumns+`
        FROM textures
        ORDER BY handle
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Texture{}
	for rows.Next() {
		var t models.Texture
		if err := rows.Scan(&t.ID, &t.Handle, &t.Filename, &t.Description, &t.MimeType, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) GetByHandle(ctx context.Context, handle string) (*models.Texture, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+textureColumns+`
        FROM textures
        WHERE handle = ?
    `, handle)
	return scanTexture(row)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Texture, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+textureColumns+`
        FROM textures
        WHERE id = ?
    `, id)
	return scanTexture(row)
}

// Create добавляет текстуру, если handle еще свободен, и в любом случае
// возвращает сохраненную строку. created сообщает, была ли вставка.
func (r *Repository) Create(ctx context.Context, t models.Texture) (*models.Texture, bool, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO textures (id, handle, filename, description, mime_type)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(handle) DO NOTHING
    `, t.ID, t.Handle, t.Filename, t.Description, t.MimeType)
	if err != nil {
		return nil, false, fmt.Errorf("insert texture: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	stored, err := r.GetByHandle(ctx, t.Handle)
	if err != nil {
		return nil, false, err
	}
	return stored, n > 0, nil
}

func scanTexture(row *sql.Row) (*models.Texture, error) {
	var t models.Texture
	if err := row.Scan(&t.ID, &t.Handle, &t.Filename, &t.Description, &t.MimeType, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	names, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Name() < names[j].Name() })

	for _, entry := range names {
		data, err := migrations.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
