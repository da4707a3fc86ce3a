package entity

// User is an account document in the users collection. Email is the unique
// business key; ID is the store-generated internal identifier. Accounts are
// created once at registration and never updated or deleted by any exposed
// operation.
type User struct {
	ID       string `json:"_id,omitempty"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	// PasswordHash holds the salted bcrypt hash; the plaintext is never stored.
	PasswordHash string `json:"password,omitempty"`
}
