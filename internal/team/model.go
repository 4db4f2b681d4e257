package team

// Member is an entry of the shared team directory.
type Member struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
