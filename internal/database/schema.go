package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// DefaultTeam is inserted into the team directory on first start.
var DefaultTeam = []TeamMember{
	{FullName: "John Doe", Email: "john.doe@example.com"},
	{FullName: "Alice Smith", Email: "alice.smith@example.com"},
	{FullName: "Tom Kelly", Email: "tom.kelly@example.com"},
}

// Init creates the tables and seeds the team directory. It must run once
// before the server accepts connections and is safe to repeat.
func Init(ctx context.Context, db *bun.DB) error {
	if err := createTables(ctx, db); err != nil {
		return err
	}
	return SeedTeam(ctx, db)
}

func createTables(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*Task)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id")`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*TeamMember)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create team table: %w", err)
	}

	return nil
}

// SeedTeam inserts DefaultTeam, skipping members whose email already exists.
func SeedTeam(ctx context.Context, db *bun.DB) error {
	members := make([]TeamMember, len(DefaultTeam))
	copy(members, DefaultTeam)

	_, err := db.NewInsert().
		Model(&members).
		On("CONFLICT (email) DO NOTHING").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed team: %w", err)
	}

	return nil
}
