package database

import "github.com/uptrace/bun"

// User is the users table row.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64   `bun:"id,pk,autoincrement"`
	FullName     string  `bun:"full_name,notnull"`
	Email        string  `bun:"email,notnull,unique"`
	PasswordHash string  `bun:"password_hash,notnull"`
	Bio          *string `bun:"bio"`
}

// Task is the tasks table row. Assignees holds a JSON-encoded string array.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID        int64  `bun:"id,pk,autoincrement"`
	UserID    int64  `bun:"user_id,notnull"`
	Name      string `bun:"name,notnull"`
	Project   string `bun:"project,notnull"`
	DueDate   string `bun:"due_date,notnull"`
	Priority  string `bun:"priority,notnull"`
	Assignees string `bun:"assignees,notnull"`
	Status    string `bun:"status,notnull"`
}

// TeamMember is the team table row.
type TeamMember struct {
	bun.BaseModel `bun:"table:team,alias:tm"`

	ID       int64  `bun:"id,pk,autoincrement"`
	FullName string `bun:"full_name,notnull"`
	Email    string `bun:"email,notnull,unique"`
}
