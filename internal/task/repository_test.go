package task

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskflow/internal/config"
	"github.com/redmonkez12/taskflow/internal/database"
	"github.com/redmonkez12/taskflow/internal/database/databasetest"
)

// newOwners inserts two users and returns their ids.
func newOwners(t *testing.T, db *bun.DB) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	a := &database.User{FullName: "Alice", Email: "a@x.com", PasswordHash: "h"}
	b := &database.User{FullName: "Bob", Email: "b@x.com", PasswordHash: "h"}
	for _, u := range []*database.User{a, b} {
		_, err := db.NewInsert().Model(u).Returning("id").Exec(ctx)
		require.NoError(t, err)
	}
	return a.ID, b.ID
}

func TestRepository_CreateAndList(t *testing.T) {
	db := databasetest.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	alice, bob := newOwners(t, db)

	first := &Task{UserID: alice, Name: "A", Project: "P", DueDate: "2024-01-01", Priority: "High",
		Assignees: []string{"John Doe", "Tom Kelly"}, Status: DefaultStatus}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, int64(1), first.ID)

	second := &Task{UserID: alice, Name: "B", Project: "P", DueDate: "2024-02-01", Priority: "Low", Status: "Done"}
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.Create(ctx, &Task{UserID: bob, Name: "C", Project: "Q", DueDate: "2024-03-01", Priority: "Low", Status: "Done"}))

	tasks, err := repo.ListByOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "A", tasks[0].Name)
	assert.Equal(t, []string{"John Doe", "Tom Kelly"}, tasks[0].Assignees)
	assert.Equal(t, "B", tasks[1].Name)
	assert.Equal(t, []string{}, tasks[1].Assignees)

	var stored database.Task
	require.NoError(t, db.NewSelect().Model(&stored).Where("id = ?", second.ID).Scan(ctx))
	assert.Equal(t, "[]", stored.Assignees)

	tasks, err = repo.ListByOwner(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)
}

func TestRepository_UpdateAndDeleteScopedToOwner(t *testing.T) {
	db := databasetest.NewDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	alice, bob := newOwners(t, db)

	task := &Task{UserID: alice, Name: "A", Project: "P", DueDate: "2024-01-01", Priority: "High", Status: DefaultStatus}
	require.NoError(t, repo.Create(ctx, task))

	stolen := *task
	stolen.UserID = bob
	stolen.Name = "hijacked"
	assert.ErrorIs(t, repo.Update(ctx, &stolen), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, task.ID, bob), ErrNotFound)

	task.Name = "A2"
	task.Status = "Done"
	task.Assignees = []string{"Alice Smith"}
	require.NoError(t, repo.Update(ctx, task))

	tasks, err := repo.ListByOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "A2", tasks[0].Name)
	assert.Equal(t, "Done", tasks[0].Status)
	assert.Equal(t, []string{"Alice Smith"}, tasks[0].Assignees)

	require.NoError(t, repo.Delete(ctx, task.ID, alice))
	assert.ErrorIs(t, repo.Delete(ctx, task.ID, alice), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, task), ErrNotFound)
}

func TestMapDBTaskToModel_Assignees(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"empty column", "", []string{}, false},
		{"json null", "null", []string{}, false},
		{"empty array", "[]", []string{}, false},
		{"names", `["a","b"]`, []string{"a", "b"}, false},
		{"corrupt", `{"a":1}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mapDBTaskToModel(&database.Task{ID: 1, Assignees: tt.raw})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Assignees)
		})
	}
}

func TestRepository_Postgres_StorageError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := database.NewBunDB(sqlDB, config.DriverPostgres)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .* FROM "tasks"`).WillReturnError(errors.New("relation \"tasks\" does not exist"))

	_, err = repo.ListByOwner(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `relation "tasks" does not exist`)
	require.NoError(t, mock.ExpectationsWereMet())
}
