package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cariaestates/backoffice/internal/entity"
)

// ArchiveRepository guarda as entradas de notificação/atividade que o
// store evicta quando o cap em memória estoura. É o único consumidor de
// Postgres do serviço.
type ArchiveRepository struct {
	DB *sql.DB
}

func NewArchiveRepository(db *sql.DB) *ArchiveRepository {
	return &ArchiveRepository{DB: db}
}

func (r *ArchiveRepository) ArchiveNotifications(ctx context.Context, notifications []entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO archived_notifications (id, title, message, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, n := range notifications {
		if _, err := stmt.ExecContext(ctx, n.ID, n.Title, n.Message, n.Type, n.Read, n.Time); err != nil {
			return fmt.Errorf("falha ao arquivar notificação %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

func (r *ArchiveRepository) ArchiveActivities(ctx context.Context, activities []entity.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO archived_activities (id, type, title, description, entity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range activities {
		if _, err := stmt.ExecContext(ctx, a.ID, a.Type, a.Title, a.Description, a.Entity, a.Time); err != nil {
			return fmt.Errorf("falha ao arquivar atividade %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// EnsureSchema cria as tabelas de arquivo se ainda não existirem.
func (r *ArchiveRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS archived_notifications (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			message    TEXT NOT NULL,
			type       TEXT NOT NULL,
			read       BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS archived_activities (
			id          TEXT PRIMARY KEY,
			type        TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			entity      TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}
