package task

// DefaultStatus is assigned to tasks created without a status.
const DefaultStatus = "In Progress"

type Task struct {
	ID        int64    `json:"id"`
	UserID    int64    `json:"-"`
	Name      string   `json:"name"`
	Project   string   `json:"project"`
	DueDate   string   `json:"dueDate"`
	Priority  string   `json:"priority"`
	Assignees []string `json:"assignees"`
	Status    string   `json:"status"`
}
