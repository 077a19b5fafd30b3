package domain

// Role tags an account as exactly one of customer or admin. Behavior that
// differs by role switches on the tag exhaustively.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

type Account struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
