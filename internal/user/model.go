package user

type User struct {
	ID           int64   `json:"id"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"` // Never expose password hash in JSON
	Bio          *string `json:"bio"`
}
