package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound は指定された条件に一致するIdentityが存在しない場合に返されます。
	ErrNotFound = errors.New("identity not found")

	// ErrDuplicateEmail は同じメールアドレスのIdentityが既に存在する場合に返されます。
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store はSQLiteに裏付けられたIdentityの永続化レイヤーです。
// email のグローバル一意性はテーブルのUNIQUE制約が保証します。
// アプリケーション側の事前チェックはUX向けの早期リジェクトにすぎません。
type Store struct {
	db *sqlx.DB
}

// Open はデータベースファイルを開き、Storeを作成します。
// 親ディレクトリが存在しない場合は作成します。
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLiteはコネクション単位でロックするため、書き込みは1本に制限する
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

// Close はデータベース接続を閉じます。
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema はidentitiesテーブルを冪等に作成します。
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS identities (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_identities_email ON identities(email);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Create は新しいIdentityを永続化し、採番したIDを設定して返します。
// email が既に使用されている場合は ErrDuplicateEmail を返します。
func (s *Store) Create(ctx context.Context, ident *Identity) error {
	ident.ID = uuid.NewString()
	ident.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO identities (id, email, display_name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		ident.ID, ident.Email, ident.DisplayName, ident.PasswordHash, ident.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert identity: %w", err)
	}
	return nil
}

// ByEmail はメールアドレスでIdentityを検索します。
// 見つからない場合は ErrNotFound を返します。
func (s *Store) ByEmail(ctx context.Context, email string) (*Identity, error) {
	const q = `SELECT id, email, display_name, password_hash, created_at
		FROM identities WHERE email = ?`
	var ident Identity
	if err := s.db.GetContext(ctx, &ident, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query identity by email: %w", err)
	}
	return &ident, nil
}

// ByID はIDでIdentityを検索します。
// 見つからない場合は ErrNotFound を返します。
func (s *Store) ByID(ctx context.Context, id string) (*Identity, error) {
	const q = `SELECT id, email, display_name, password_hash, created_at
		FROM identities WHERE id = ?`
	var ident Identity
	if err := s.db.GetContext(ctx, &ident, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query identity by id: %w", err)
	}
	return &ident, nil
}

// Count は保存されているIdentityの件数を返します。
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM identities`); err != nil {
		return 0, fmt.Errorf("failed to count identities: %w", err)
	}
	return n, nil
}
