package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mmeshcher/shortslug/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var mappingColumns = []string{"short_code", "original_url", "created_at", "clicks"}

const connectTimeout = 10 * time.Second

type PostgresRepository struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	if dsn == "" {
		return nil, errors.New("database dsn is empty")
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := runMigrations(pingCtx, dsn); err != nil {
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewPostgresRepositoryWithDB(db), nil
}

// NewPostgresRepositoryWithDB wraps an already opened database without running migrations.
func NewPostgresRepositoryWithDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// runMigrations gives up once ctx is done; the migrator itself only runs
// after the server has answered a ping.
func runMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database for migrations: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database for migrations: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

func (p *PostgresRepository) Save(ctx context.Context, mapping models.URLMapping) (models.URLMapping, error) {
	query, args, err := p.sb.
		Insert("urls").
		Columns("short_code", "original_url", "created_at").
		Values(mapping.ShortCode, mapping.OriginalURL, mapping.CreatedAt).
		Suffix("ON CONFLICT (original_url) DO NOTHING").
		ToSql()
	if err != nil {
		return models.URLMapping{}, fmt.Errorf("build query: %w", err)
	}

	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return models.URLMapping{}, ErrCodeTaken
		}
		return models.URLMapping{}, fmt.Errorf("insert url: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.URLMapping{}, fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		existing, err := p.getOne(ctx, squirrel.Eq{"original_url": mapping.OriginalURL})
		if err != nil {
			return models.URLMapping{}, fmt.Errorf("load existing url: %w", err)
		}
		return existing, ErrURLExists
	}

	return mapping, nil
}

func (p *PostgresRepository) Get(ctx context.Context, code string) (models.URLMapping, error) {
	return p.getOne(ctx, squirrel.Eq{"short_code": code})
}

func (p *PostgresRepository) getOne(ctx context.Context, where squirrel.Eq) (models.URLMapping, error) {
	query, args, err := p.sb.
		Select(mappingColumns...).
		From("urls").
		Where(where).
		ToSql()
	if err != nil {
		return models.URLMapping{}, fmt.Errorf("build query: %w", err)
	}

	var m models.URLMapping
	err = p.db.QueryRowContext(ctx, query, args...).Scan(&m.ShortCode, &m.OriginalURL, &m.CreatedAt, &m.Clicks)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.URLMapping{}, ErrNotFound
		}
		return models.URLMapping{}, fmt.Errorf("query row: %w", err)
	}

	return m, nil
}

func (p *PostgresRepository) AddClicks(ctx context.Context, clicks map[string]int64) error {
	if len(clicks) == 0 {
		return nil
	}

	codes := make([]string, 0, len(clicks))
	for code := range clicks {
		codes = append(codes, code)
	}
	// fixed lock order across concurrent flushes
	sort.Strings(codes)

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, code := range codes {
		if clicks[code] <= 0 {
			continue
		}

		query, args, err := p.sb.
			Update("urls").
			Set("clicks", squirrel.Expr("clicks + ?", clicks[code])).
			Where(squirrel.Eq{"short_code": code}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update clicks: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (p *PostgresRepository) Summary(ctx context.Context) (models.Summary, error) {
	query, args, err := p.sb.
		Select("COUNT(*)", "COALESCE(SUM(clicks), 0)").
		From("urls").
		ToSql()
	if err != nil {
		return models.Summary{}, fmt.Errorf("build query: %w", err)
	}

	var summary models.Summary
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&summary.TotalURLs, &summary.TotalClicks); err != nil {
		return models.Summary{}, fmt.Errorf("query summary: %w", err)
	}
	return summary, nil
}

func (p *PostgresRepository) Top(ctx context.Context, limit int) ([]models.LinkInfo, error) {
	return p.list(ctx, limit, "clicks DESC", "created_at DESC")
}

func (p *PostgresRepository) Recent(ctx context.Context, limit int) ([]models.LinkInfo, error) {
	return p.list(ctx, limit, "created_at DESC")
}

func (p *PostgresRepository) list(ctx context.Context, limit int, orderBy ...string) ([]models.LinkInfo, error) {
	if limit <= 0 {
		return []models.LinkInfo{}, nil
	}

	query, args, err := p.sb.
		Select(mappingColumns...).
		From("urls").
		OrderBy(orderBy...).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query urls: %w", err)
	}
	defer rows.Close()

	result := make([]models.LinkInfo, 0, limit)
	for rows.Next() {
		var m models.URLMapping
		if err := rows.Scan(&m.ShortCode, &m.OriginalURL, &m.CreatedAt, &m.Clicks); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result = append(result, models.LinkInfoFromMapping(m))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (p *PostgresRepository) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresRepository) Close() error {
	return p.db.Close()
}
