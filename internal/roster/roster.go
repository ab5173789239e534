// Package roster manages classes, students and professors, the logged-in
// actor's own profile, and the reports teachers read.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/profedug/GabaritaIF/internal/auth"
	"github.com/profedug/GabaritaIF/internal/genai"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/validator"
)

const (
	RequiredFieldsMessage = "Preencha os campos obrigatórios."
	ShortPINMessage       = "O PIN deve ter pelo menos 4 caracteres."
	DefaultClassYear      = "2025"
)

var (
	ErrReservedPIN   = fmt.Errorf("%w: reserved for the administrator", portal.ErrDuplicatePIN)
	ErrSecretManaged = errors.New("roster: the administrator PIN is set in the server configuration")
)

type Service struct {
	state    *portal.State
	gate     *auth.Gate
	validate *validator.Validator
	rec      genai.Recommender
	log      *slog.Logger
}

func NewService(state *portal.State, gate *auth.Gate, v *validator.Validator, rec genai.Recommender, log *slog.Logger) *Service {
	if v == nil {
		v = validator.New()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{state: state, gate: gate, validate: v, rec: rec, log: log}
}

// ---- classes ----

type ClassInput struct {
	Name string `json:"name" validate:"notblank"`
	Year string `json:"year"`
}

func (s *Service) AddClass(ctx context.Context, in ClassInput) (portal.Class, error) {
	if err := s.validate.Struct(in, RequiredFieldsMessage); err != nil {
		return portal.Class{}, err
	}
	if strings.TrimSpace(in.Year) == "" {
		in.Year = DefaultClassYear
	}
	c := portal.Class{ID: portal.NewID(), Name: strings.TrimSpace(in.Name), Year: strings.TrimSpace(in.Year)}
	return c, s.state.AddClass(ctx, c)
}

// RemoveClass leaves students and simulations pointing at it untouched.
func (s *Service) RemoveClass(ctx context.Context, id string) error {
	return s.state.RemoveClass(ctx, id)
}

// ---- students ----

type StudentInput struct {
	Name        string `json:"name" validate:"notblank"`
	Email       string `json:"email" validate:"required,email"`
	WhatsApp    string `json:"whatsapp"`
	PIN         string `json:"pin" validate:"notblank"`
	PhotoURL    string `json:"photoUrl"`
	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
	ClassID     string `json:"classId" validate:"notblank"`
}

func (in StudentInput) student(id string) portal.Student {
	return portal.Student{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		WhatsApp:    in.WhatsApp,
		PIN:         in.PIN,
		PhotoURL:    in.PhotoURL,
		ParentName:  in.ParentName,
		ParentPhone: in.ParentPhone,
		ClassID:     in.ClassID,
	}
}

func (s *Service) AddStudent(ctx context.Context, in StudentInput) (portal.Student, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in, RequiredFieldsMessage); err != nil {
		return portal.Student{}, err
	}
	st := in.student(portal.NewID())
	return st, s.state.AddStudent(ctx, st)
}

func (s *Service) UpdateStudent(ctx context.Context, id string, in StudentInput) (portal.Student, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in, RequiredFieldsMessage); err != nil {
		return portal.Student{}, err
	}
	st := in.student(id)
	return st, s.state.UpdateStudent(ctx, st)
}

func (s *Service) RemoveStudent(ctx context.Context, id string) error {
	return s.state.RemoveStudent(ctx, id)
}

// StudentRow is a student as listed to teachers, with the class resolved.
type StudentRow struct {
	portal.Student
	ClassName string `json:"className"`
}

func (s *Service) Students() []StudentRow {
	sts := s.state.Students()
	out := make([]StudentRow, 0, len(sts))
	for _, st := range sts {
		out = append(out, StudentRow{Student: st, ClassName: s.state.ClassName(st.ClassID)})
	}
	return out
}

// ---- professors ----

type ProfessorInput struct {
	Name     string `json:"name" validate:"notblank"`
	Nickname string `json:"nickname"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	PIN      string `json:"pin" validate:"notblank"`
	PhotoURL string `json:"photoUrl"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (in ProfessorInput) professor(id string) portal.Professor {
	return portal.Professor{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Nickname:  strings.TrimSpace(in.Nickname),
		Email:     strings.TrimSpace(in.Email),
		Phone:     in.Phone,
		PIN:       in.PIN,
		PhotoURL:  in.PhotoURL,
		IsAdmin:   in.IsAdmin,
		HasAccess: true,
	}
}

func (s *Service) checkProfessor(in ProfessorInput) error {
	if err := s.validate.Struct(in, RequiredFieldsMessage); err != nil {
		return err
	}
	if s.gate.Reserved(in.PIN) {
		return ErrReservedPIN
	}
	return nil
}

// AddProfessor grants access on creation. PINs must be unique and may not
// equal the administrator secret.
func (s *Service) AddProfessor(ctx context.Context, in ProfessorInput) (portal.Professor, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.checkProfessor(in); err != nil {
		return portal.Professor{}, err
	}
	p := in.professor(portal.NewID())
	return p, s.state.AddProfessor(ctx, p)
}

// UpdateProfessor replaces the record; saving an edit restores access.
func (s *Service) UpdateProfessor(ctx context.Context, id string, in ProfessorInput) (portal.Professor, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.checkProfessor(in); err != nil {
		return portal.Professor{}, err
	}
	p := in.professor(id)
	return p, s.state.UpdateProfessor(ctx, p)
}

func (s *Service) SetProfessorAccess(ctx context.Context, id string, access bool) (portal.Professor, error) {
	p, ok := s.state.Professor(id)
	if !ok {
		return portal.Professor{}, fmt.Errorf("professor %s: %w", id, portal.ErrNotFound)
	}
	p.HasAccess = access
	return p, s.state.UpdateProfessor(ctx, p)
}

func (s *Service) RemoveProfessor(ctx context.Context, id string) error {
	return s.state.RemoveProfessor(ctx, id)
}

// ---- own profile ----

// ProfileUpdate changes only the fields that are set. Students have no
// nickname; it is ignored for them.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Nickname *string `json:"nickname"`
	PhotoURL *string `json:"photoUrl"`
}

func (s *Service) UpdateProfile(ctx context.Context, a auth.Actor, u ProfileUpdate) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	switch a.Role {
	case auth.RoleSuperAdmin:
		prof := s.state.AdminProfile()
		set(&prof.Name, u.Name)
		set(&prof.Nickname, u.Nickname)
		set(&prof.PhotoURL, u.PhotoURL)
		return s.state.UpdateAdminProfile(ctx, prof)
	case auth.RoleStudent:
		st, ok := s.state.Student(a.ID())
		if !ok {
			return fmt.Errorf("student %s: %w", a.ID(), portal.ErrNotFound)
		}
		set(&st.Name, u.Name)
		set(&st.PhotoURL, u.PhotoURL)
		return s.state.UpdateStudent(ctx, st)
	default:
		p, ok := s.state.Professor(a.ID())
		if !ok {
			return fmt.Errorf("professor %s: %w", a.ID(), portal.ErrNotFound)
		}
		set(&p.Name, u.Name)
		set(&p.Nickname, u.Nickname)
		set(&p.PhotoURL, u.PhotoURL)
		return s.state.UpdateProfessor(ctx, p)
	}
}

type pinChange struct {
	PIN string `validate:"pin"`
}

// ChangePIN sets the actor's own PIN. The administrator secret comes from
// configuration and cannot be changed here.
func (s *Service) ChangePIN(ctx context.Context, a auth.Actor, pin string) error {
	if err := s.validate.Struct(pinChange{PIN: pin}, ShortPINMessage); err != nil {
		return err
	}
	switch a.Role {
	case auth.RoleSuperAdmin:
		return ErrSecretManaged
	case auth.RoleStudent:
		st, ok := s.state.Student(a.ID())
		if !ok {
			return fmt.Errorf("student %s: %w", a.ID(), portal.ErrNotFound)
		}
		st.PIN = pin
		return s.state.UpdateStudent(ctx, st)
	default:
		if s.gate.Reserved(pin) {
			return ErrReservedPIN
		}
		p, ok := s.state.Professor(a.ID())
		if !ok {
			return fmt.Errorf("professor %s: %w", a.ID(), portal.ErrNotFound)
		}
		p.PIN = pin
		return s.state.UpdateProfessor(ctx, p)
	}
}
