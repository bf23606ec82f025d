package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/storefront-core/pkg/enums"
	"github.com/angelmondragon/storefront-core/pkg/types"
)

//go:embed data/users.json
var usersJSON []byte

// DirectoryUser is one record in the read-only user directory. Password is
// plain text because the directory mocks a backend; the auth store strips it
// before anything enters session state.
type DirectoryUser struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Role      enums.UserRole `json:"role"`
	Avatar    string         `json:"avatar"`
	Phone     string         `json:"phone"`
	Address   types.Address  `json:"address"`
	Orders    []types.Order  `json:"orders"`
}

// Directory answers equality lookups against the embedded user dataset. It is
// never written: registration deliberately leaves new identities out of it.
type Directory struct {
	users   []DirectoryUser
	byEmail map[string]int
}

// LoadDirectory parses the embedded user dataset.
func LoadDirectory() (*Directory, error) {
	var users []DirectoryUser
	if err := json.Unmarshal(usersJSON, &users); err != nil {
		return nil, fmt.Errorf("parsing users dataset: %w", err)
	}

	byEmail := make(map[string]int, len(users))
	for i, u := range users {
		if !u.Role.IsValid() {
			return nil, fmt.Errorf("user %q has invalid role %q", u.Email, u.Role)
		}
		if _, exists := byEmail[u.Email]; exists {
			return nil, fmt.Errorf("duplicate email %q in dataset", u.Email)
		}
		byEmail[u.Email] = i
	}

	return &Directory{users: users, byEmail: byEmail}, nil
}

// FindByEmail returns the record whose email matches exactly. The match is
// case-sensitive, mirroring the source dataset semantics.
func (d *Directory) FindByEmail(email string) (*DirectoryUser, bool) {
	i, ok := d.byEmail[email]
	if !ok {
		return nil, false
	}
	user := d.users[i]
	return &user, true
}

// EmailTaken reports whether a record with the email exists.
func (d *Directory) EmailTaken(email string) bool {
	_, ok := d.byEmail[email]
	return ok
}
