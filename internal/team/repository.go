package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskflow/internal/database"
)

var ErrDuplicateEmail = errors.New("email already exists")

// Repository handles the team directory
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// List returns every member in insertion order
func (r *Repository) List(ctx context.Context) ([]Member, error) {
	var rows []database.TeamMember
	if err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}

	members := make([]Member, 0, len(rows))
	for i := range rows {
		members = append(members, mapDBMemberToModel(&rows[i]))
	}
	return members, nil
}

// Create inserts a member and returns it with its new ID
func (r *Repository) Create(ctx context.Context, fullName, email string) (*Member, error) {
	row := &database.TeamMember{FullName: fullName, Email: email}

	if _, err := r.db.NewInsert().
		Model(row).
		Returning("id").
		Exec(ctx); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	m := mapDBMemberToModel(row)
	return &m, nil
}

func mapDBMemberToModel(row *database.TeamMember) Member {
	return Member{
		ID:       row.ID,
		FullName: row.FullName,
		Email:    row.Email,
	}
}
