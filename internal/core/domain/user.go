package domain

// Role names seeded at install time. Roles are referenced, never owned, by users.
const (
	RoleAdmin    = "Admin"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)

// Gender enumerates the values accepted on registration.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Role mirrors the persisted representation in the roles table.
type Role struct {
	ID          string
	Description string
}

// User mirrors the persisted representation in the users table. Username is
// globally unique among live rows and doubles as the contact email address.
// Enabled stays false until the confirmation token is redeemed.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	PasswordHash string
	Phone        *string
	Gender       Gender
	Enabled      bool
	Role         Role
	IsDeleted    bool
}

// MangledUsername returns the tombstone name that frees the original username
// for reuse after a soft delete.
func (u User) MangledUsername() string {
	return u.Username + "-" + u.ID
}
