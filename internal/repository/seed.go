package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Raymond9734/print-connect-backend/internal/fixtures"
)

// Seed loads the dataset into PostgreSQL in a single transaction.
// Existing rows with the same ids are left untouched.
func Seed(ctx context.Context, db *sql.DB, ds *fixtures.Dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Rollback is safe to call even after Commit
	}()

	for _, p := range ds.Providers {
		materials := make([]string, 0, len(p.Materials))
		for _, m := range p.Materials {
			materials = append(materials, string(m))
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO providers (id, name, distance, rating, avatar_url, materials, is_business, motto)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Distance, p.Rating, p.AvatarURL, pq.Array(materials), p.IsBusiness, p.Motto,
		)
		if err != nil {
			return fmt.Errorf("failed to seed provider %d: %w", p.ID, err)
		}

		for _, printer := range p.Printers {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO printers (id, provider_id, model, build_volume)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (id) DO NOTHING`,
				printer.ID, p.ID, printer.Model, printer.BuildVolume,
			)
			if err != nil {
				return fmt.Errorf("failed to seed printer %d: %w", printer.ID, err)
			}
		}

		// Insert oldest first so seq DESC reproduces the fixture order
		for i := len(p.Orders) - 1; i >= 0; i-- {
			o := p.Orders[i]
			_, err := tx.ExecContext(ctx, `
				INSERT INTO orders (id, provider_id, customer_name, file_name, idea_description, material, quantity, notes, status, order_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				ON CONFLICT (id) DO NOTHING`,
				o.ID, p.ID, o.CustomerName, o.FileName, o.IdeaDescription, string(o.Material), o.Quantity, o.Notes, o.Status, o.Date,
			)
			if err != nil {
				return fmt.Errorf("failed to seed order %d: %w", o.ID, err)
			}
		}
	}

	for _, u := range ds.Users {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, name, type, provider_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			u.ID, u.Name, u.Type, u.ProviderID,
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %d: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	return nil
}
