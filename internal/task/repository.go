package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskflow/internal/database"
)

// ErrNotFound covers both a missing task and a task owned by someone else.
var ErrNotFound = errors.New("task not found or unauthorized")

// Repository handles task persistence. Every query is scoped to an owner.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// ListByOwner returns all tasks of a user in insertion order.
func (r *Repository) ListByOwner(ctx context.Context, userID int64) ([]Task, error) {
	var rows []database.Task
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]Task, 0, len(rows))
	for i := range rows {
		t, err := mapDBTaskToModel(&rows[i])
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}

	return tasks, nil
}

// Create inserts t and sets its ID.
func (r *Repository) Create(ctx context.Context, t *Task) error {
	row, err := mapModelToDBTask(t)
	if err != nil {
		return err
	}

	if _, err := r.db.NewInsert().
		Model(row).
		Returning("id").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	t.ID = row.ID
	return nil
}

// Update overwrites the task matching both t.ID and t.UserID.
func (r *Repository) Update(ctx context.Context, t *Task) error {
	row, err := mapModelToDBTask(t)
	if err != nil {
		return err
	}

	result, err := r.db.NewUpdate().
		Model((*database.Task)(nil)).
		Set("name = ?", row.Name).
		Set("project = ?", row.Project).
		Set("due_date = ?", row.DueDate).
		Set("priority = ?", row.Priority).
		Set("assignees = ?", row.Assignees).
		Set("status = ?", row.Status).
		Where("id = ?", t.ID).
		Where("user_id = ?", t.UserID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return requireAffected(result)
}

// Delete removes the task matching both id and userID.
func (r *Repository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.NewDelete().
		Model((*database.Task)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return requireAffected(result)
}

func requireAffected(result interface{ RowsAffected() (int64, error) }) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func mapModelToDBTask(t *Task) (*database.Task, error) {
	assignees := t.Assignees
	if assignees == nil {
		assignees = []string{}
	}

	encoded, err := json.Marshal(assignees)
	if err != nil {
		return nil, fmt.Errorf("failed to encode assignees: %w", err)
	}

	return &database.Task{
		ID:        t.ID,
		UserID:    t.UserID,
		Name:      t.Name,
		Project:   t.Project,
		DueDate:   t.DueDate,
		Priority:  t.Priority,
		Assignees: string(encoded),
		Status:    t.Status,
	}, nil
}

func mapDBTaskToModel(row *database.Task) (*Task, error) {
	assignees := []string{}
	if row.Assignees != "" && row.Assignees != "null" {
		if err := json.Unmarshal([]byte(row.Assignees), &assignees); err != nil {
			return nil, fmt.Errorf("failed to decode assignees of task %d: %w", row.ID, err)
		}
	}

	return &Task{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Project:   row.Project,
		DueDate:   row.DueDate,
		Priority:  row.Priority,
		Assignees: assignees,
		Status:    row.Status,
	}, nil
}
