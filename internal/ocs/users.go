package ocs

import (
	"strings"
	"sync"
)

// UnauthorizedUser is the sentinel user name for requests sent without
// credentials.
const UnauthorizedUser = "UNAUTHORIZED_USER"

// adminAlias names the administrator independently of its configured name.
const adminAlias = "%admin%"

type Credential struct {
	Username string
	Password string
}

//go:generate mockgen -source=users.go -destination=../../test/unit/doubles/ocs/users_mock.go -package=ocs -mock_names=IdentityResolver=MockIdentityResolver
type IdentityResolver interface {
	// ActualUsername maps a symbolic user name to the registered one.
	ActualUsername(user string) string
	// PasswordFor returns the password of a (symbolic or registered) user.
	PasswordFor(user string) string
}

// Users is the registry of identities known to a test run.
type Users struct {
	mu              sync.RWMutex
	admin           Credential
	defaultPassword string
	aliases         map[string]string
	passwords       map[string]string
}

func NewUsers(admin Credential, defaultPassword string, aliases map[string]string) *Users {
	u := &Users{
		admin:           admin,
		defaultPassword: defaultPassword,
		aliases:         make(map[string]string, len(aliases)),
		passwords:       make(map[string]string),
	}
	for k, v := range aliases {
		u.aliases[strings.ToLower(k)] = v
	}
	return u
}

func (u *Users) Admin() Credential {
	return u.admin
}

// Add registers a created user with its password.
func (u *Users) Add(user, password string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.passwords[strings.ToLower(u.actual(user))] = password
}

// Forget removes the users created by earlier scenarios.
func (u *Users) Forget() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.passwords = make(map[string]string)
}

func (u *Users) ActualUsername(user string) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.actual(user)
}

func (u *Users) actual(user string) string {
	if user == adminAlias || strings.EqualFold(user, "admin") {
		return u.admin.Username
	}
	if real, ok := u.aliases[strings.ToLower(user)]; ok {
		return real
	}
	return user
}

func (u *Users) PasswordFor(user string) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	actual := u.actual(user)
	if actual == u.admin.Username {
		return u.admin.Password
	}
	if p, ok := u.passwords[strings.ToLower(actual)]; ok {
		return p
	}
	return u.defaultPassword
}

// CredentialFor resolves user into a credential. It returns nil for
// UnauthorizedUser. A non-nil password overrides the registry.
func CredentialFor(r IdentityResolver, user string, password *string) *Credential {
	if user == UnauthorizedUser {
		return nil
	}
	c := &Credential{Username: r.ActualUsername(user)}
	if password != nil {
		c.Password = *password
	} else {
		c.Password = r.PasswordFor(user)
	}
	return c
}
