// Package auth resolves PIN credentials to an actor and keeps the in-memory
// sessions of logged-in actors.
package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/profedug/GabaritaIF/internal/portal"
)

type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdminProfessor Role = "admin_professor"
	RoleProfessor      Role = "professor"
	RoleStudent        Role = "student"
)

const (
	SuperAdminID    = "super-admin"
	SuperAdminEmail = "admin@gabaritaif.com.br"
)

// CredentialError is a rejected login. Message is safe to show the user.
type CredentialError struct{ Message string }

func (e *CredentialError) Error() string { return e.Message }

var (
	ErrIncorrectPIN  = &CredentialError{Message: "PIN incorreto."}
	ErrAccessRevoked = &CredentialError{Message: "Acesso revogado."}
	ErrEmailNotFound = &CredentialError{Message: "E-mail não encontrado."}
)

// Actor is the logged-in identity: exactly one of Professor or Student is
// set, and Role says which.
type Actor struct {
	Role      Role
	Professor *portal.Professor
	Student   *portal.Student
}

func (a Actor) IsStudent() bool { return a.Role == RoleStudent }

func (a Actor) ID() string {
	switch {
	case a.Student != nil:
		return a.Student.ID
	case a.Professor != nil:
		return a.Professor.ID
	}
	return ""
}

func (a Actor) DisplayName() string {
	switch {
	case a.Student != nil:
		return a.Student.Name
	case a.Professor != nil:
		return a.Professor.DisplayName()
	}
	return ""
}

// Secret is the fixed super-admin credential. Hash, when set, is a bcrypt
// hash and wins over Plain. An empty Secret disables super-admin login.
type Secret struct {
	Plain string
	Hash  string
}

func (s Secret) Matches(pin string) bool {
	if pin == "" {
		return false
	}
	if s.Hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.Hash), []byte(pin)) == nil
	}
	return s.Plain != "" && s.Plain == pin
}

// Gate resolves credentials against the current state. It keeps no state of
// its own and never limits attempts.
type Gate struct {
	state  *portal.State
	secret Secret
}

func NewGate(state *portal.State, secret Secret) *Gate {
	return &Gate{state: state, secret: secret}
}

// LoginProfessor checks the super-admin secret first, then the first
// professor whose PIN matches.
func (g *Gate) LoginProfessor(pin string) (Actor, error) {
	if g.secret.Matches(pin) {
		return g.superAdmin(), nil
	}
	p, ok := g.state.ProfessorByPIN(pin)
	if !ok || pin == "" {
		return Actor{}, ErrIncorrectPIN
	}
	if !p.HasAccess {
		return Actor{}, ErrAccessRevoked
	}
	role := RoleProfessor
	if p.IsAdmin {
		role = RoleAdminProfessor
	}
	return Actor{Role: role, Professor: &p}, nil
}

// CheckStudentEmail is the first step of the student login.
func (g *Gate) CheckStudentEmail(email string) error {
	if _, ok := g.state.StudentByEmail(strings.TrimSpace(email)); !ok {
		return ErrEmailNotFound
	}
	return nil
}

func (g *Gate) LoginStudent(email, pin string) (Actor, error) {
	st, ok := g.state.StudentByEmail(strings.TrimSpace(email))
	if !ok {
		return Actor{}, ErrEmailNotFound
	}
	if st.PIN != pin {
		return Actor{}, ErrIncorrectPIN
	}
	return Actor{Role: RoleStudent, Student: &st}, nil
}

// Reserved reports whether pin is the super-admin secret, which no
// professor may use.
func (g *Gate) Reserved(pin string) bool { return g.secret.Matches(pin) }

// superAdmin builds the super-admin actor from the stored admin profile.
func (g *Gate) superAdmin() Actor {
	prof := g.state.AdminProfile()
	return Actor{Role: RoleSuperAdmin, Professor: &portal.Professor{
		ID:        SuperAdminID,
		Name:      prof.Name,
		Nickname:  prof.Nickname,
		Email:     SuperAdminEmail,
		PhotoURL:  prof.PhotoURL,
		IsAdmin:   true,
		HasAccess: true,
	}}
}

// Refresh reloads the actor's record after a profile change. ok is false when
// the record is gone.
func (g *Gate) Refresh(a Actor) (Actor, bool) {
	switch a.Role {
	case RoleSuperAdmin:
		return g.superAdmin(), true
	case RoleStudent:
		st, ok := g.state.Student(a.ID())
		if !ok {
			return Actor{}, false
		}
		return Actor{Role: RoleStudent, Student: &st}, true
	default:
		p, ok := g.state.Professor(a.ID())
		if !ok || !p.HasAccess {
			return Actor{}, false
		}
		role := RoleProfessor
		if p.IsAdmin {
			role = RoleAdminProfessor
		}
		return Actor{Role: role, Professor: &p}, true
	}
}
