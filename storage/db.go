package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB representa a conexão com o banco de dados PostgreSQL.
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

var (
	_ WishlistRepository = (*DB)(nil)
	_ KYCRepository      = (*DB)(nil)
)

// Open conecta-se ao PostgreSQL sem tocar no esquema.
func Open(ctx context.Context, dataSourceName string, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao pingar o banco de dados: %w", err)
	}
	logger.Info("conexão com PostgreSQL estabelecida")
	return &DB{DB: db, logger: logger}, nil
}

// NewDB conecta-se ao PostgreSQL e executa as migrações pendentes.
func NewDB(ctx context.Context, dataSourceName string, logger *zap.Logger) (*DB, error) {
	db, err := Open(ctx, dataSourceName, logger)
	if err != nil {
		return nil, err
	}
	if _, err := Migrate(db.DB.DB, migrate.Up, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate aplica (ou reverte) as migrações embutidas e devolve quantas rodaram.
func Migrate(db *sql.DB, dir migrate.MigrationDirection, logger *zap.Logger) (int, error) {
	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}

	n, err := migrate.Exec(db, "postgres", migrations, dir)
	if err != nil {
		return 0, fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		logger.Info("migrações aplicadas", zap.Int("count", n))
	} else {
		logger.Info("nenhuma migração nova para aplicar")
	}
	return n, nil
}

// LoadWishlist devolve os IDs na ordem em que foram adicionados.
func (d *DB) LoadWishlist(ctx context.Context, userID string) ([]string, error) {
	items := []string{}
	query := `SELECT property_id FROM user_wishlist_items WHERE user_id = $1 ORDER BY position`
	if err := d.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("falha ao carregar wishlist: %w", err)
	}
	return items, nil
}

// SaveWishlist substitui a wishlist inteira do usuário.
func (d *DB) SaveWishlist(ctx context.Context, userID string, items []string) error {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_wishlist_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("falha ao limpar wishlist: %w", err)
	}
	for i, id := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO user_wishlist_items (user_id, property_id, position) VALUES ($1, $2, $3)
			 ON CONFLICT (user_id, property_id) DO NOTHING`,
			userID, id, i)
		if err != nil {
			return fmt.Errorf("falha ao salvar item %s da wishlist: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar wishlist: %w", err)
	}
	return nil
}

func (d *DB) ListDocuments(ctx context.Context, userID string) ([]models.KYCDocument, error) {
	docs := []models.KYCDocument{}
	query := `SELECT id, user_id, type, file_name, uploaded_at, status, notes
		FROM kyc_documents WHERE user_id = $1 ORDER BY uploaded_at, id`
	if err := d.SelectContext(ctx, &docs, query, userID); err != nil {
		return nil, fmt.Errorf("falha ao listar documentos: %w", err)
	}
	return docs, nil
}

// SaveDocument insere ou atualiza um documento (ON CONFLICT pelo ID).
func (d *DB) SaveDocument(ctx context.Context, doc models.KYCDocument) error {
	query := `INSERT INTO kyc_documents (id, user_id, type, file_name, uploaded_at, status, notes)
		VALUES (:id, :user_id, :type, :file_name, :uploaded_at, :status, :notes)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes`
	if _, err := d.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("falha ao salvar documento: %w", err)
	}
	return nil
}

func (d *DB) DeleteDocument(ctx context.Context, userID, docID string) (bool, error) {
	res, err := d.ExecContext(ctx, `DELETE FROM kyc_documents WHERE id = $1 AND user_id = $2`, docID, userID)
	if err != nil {
		return false, fmt.Errorf("falha ao remover documento: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("falha ao contar linhas removidas: %w", err)
	}
	return n > 0, nil
}
