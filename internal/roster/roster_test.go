package roster_test

import (
	"context"
	"errors"
	"testing"

	"github.com/profedug/GabaritaIF/internal/auth"
	"github.com/profedug/GabaritaIF/internal/genai"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/roster"
	"github.com/profedug/GabaritaIF/internal/validator"
)

func newService(d portal.Data, rec genai.Recommender) (*roster.Service, *portal.State, *auth.Gate) {
	st := portal.NewState(d)
	gate := auth.NewGate(st, auth.Secret{Plain: "9999"})
	return roster.NewService(st, gate, validator.New(), rec, nil), st, gate
}

func TestAddStudentValidation(t *testing.T) {
	svc, st, _ := newService(portal.Data{}, nil)
	ctx := context.Background()

	_, err := svc.AddStudent(ctx, roster.StudentInput{Name: "Ana", Email: "ana@test.com", PIN: "1234"})
	var verr *validator.ValidationError
	if !errors.As(err, &verr) || verr.Message != roster.RequiredFieldsMessage || !verr.Has("ClassID") {
		t.Fatalf("missing class: %v", err)
	}
	if _, err := svc.AddStudent(ctx, roster.StudentInput{Name: "Ana", Email: "not-an-email", PIN: "1234", ClassID: "1"}); !errors.As(err, &verr) {
		t.Fatalf("bad email: %v", err)
	}
	s, err := svc.AddStudent(ctx, roster.StudentInput{Name: " Ana ", Email: " ana@test.com ", PIN: "1234", ClassID: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if s.ID == "" || s.Name != "Ana" || s.Email != "ana@test.com" {
		t.Fatalf("student = %+v", s)
	}
	if _, err := svc.AddStudent(ctx, roster.StudentInput{Name: "Outra", Email: "ANA@test.com", PIN: "1", ClassID: "1"}); !errors.Is(err, portal.ErrDuplicateEmail) {
		t.Fatalf("duplicate: %v", err)
	}
	if len(st.Students()) != 1 {
		t.Fatalf("students = %d", len(st.Students()))
	}
}

func TestStudentsResolveDanglingClass(t *testing.T) {
	svc, _, _ := newService(portal.Data{
		Classes:  portal.DefaultClasses(),
		Students: []portal.Student{{ID: "s1", ClassID: "1"}, {ID: "s2", ClassID: "gone"}},
	}, nil)
	rows := svc.Students()
	if rows[0].ClassName != "7º Ano A" || rows[1].ClassName != portal.NoClassLabel {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestAddClassDefaultsYear(t *testing.T) {
	svc, _, _ := newService(portal.Data{}, nil)
	c, err := svc.AddClass(context.Background(), roster.ClassInput{Name: "8º Ano B"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Year != roster.DefaultClassYear || c.ID == "" {
		t.Fatalf("class = %+v", c)
	}
	if _, err := svc.AddClass(context.Background(), roster.ClassInput{Name: " "}); err == nil {
		t.Fatal("blank name accepted")
	}
}

func TestProfessorLifecycle(t *testing.T) {
	svc, st, gate := newService(portal.Data{}, nil)
	ctx := context.Background()
	in := roster.ProfessorInput{Name: "Marcos", Email: "marcos@if.edu.br", PIN: "1111"}

	if _, err := svc.AddProfessor(ctx, roster.ProfessorInput{Name: "X", Email: "x@if.edu.br", PIN: "9999"}); !errors.Is(err, roster.ErrReservedPIN) {
		t.Fatalf("reserved pin: %v", err)
	}
	p, err := svc.AddProfessor(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if !p.HasAccess {
		t.Fatal("new professors have access")
	}
	if _, err := svc.AddProfessor(ctx, roster.ProfessorInput{Name: "Y", Email: "y@if.edu.br", PIN: "1111"}); !errors.Is(err, portal.ErrDuplicatePIN) {
		t.Fatalf("duplicate pin: %v", err)
	}

	if _, err := svc.SetProfessorAccess(ctx, p.ID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := gate.LoginProfessor("1111"); !errors.Is(err, auth.ErrAccessRevoked) {
		t.Fatalf("revoked login: %v", err)
	}
	in.Nickname = "Prof. Marcos"
	if _, err := svc.UpdateProfessor(ctx, p.ID, in); err != nil {
		t.Fatal(err)
	}
	got, _ := st.Professor(p.ID)
	if !got.HasAccess || got.DisplayName() != "Prof. Marcos" {
		t.Fatalf("edit should restore access: %+v", got)
	}
	if _, err := svc.SetProfessorAccess(ctx, "nope", true); !errors.Is(err, portal.ErrNotFound) {
		t.Fatalf("unknown: %v", err)
	}
	if err := svc.RemoveProfessor(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateProfilePerRole(t *testing.T) {
	svc, st, gate := newService(portal.Data{
		Admin:      portal.DefaultAdminProfile(),
		Professors: []portal.Professor{{ID: "p1", Name: "Marcos", PIN: "1111", HasAccess: true}},
		Students:   []portal.Student{{ID: "s1", Name: "Ana", Email: "ana@test.com", PIN: "4444"}},
	}, nil)
	ctx := context.Background()
	name := "Eduardo Gomes"
	nick := "Dudu"
	photo := "/assets/photos/x.png"

	admin, _ := gate.LoginProfessor("9999")
	if err := svc.UpdateProfile(ctx, admin, roster.ProfileUpdate{Name: &name}); err != nil {
		t.Fatal(err)
	}
	if a := st.AdminProfile(); a.Name != name || a.Nickname != "Diretor Eduardo" {
		t.Fatalf("admin = %+v", a)
	}

	prof, _ := gate.LoginProfessor("1111")
	if err := svc.UpdateProfile(ctx, prof, roster.ProfileUpdate{Nickname: &nick, PhotoURL: &photo}); err != nil {
		t.Fatal(err)
	}
	if p, _ := st.Professor("p1"); p.Nickname != nick || p.PhotoURL != photo || p.Name != "Marcos" {
		t.Fatalf("professor = %+v", p)
	}

	stu, _ := gate.LoginStudent("ana@test.com", "4444")
	if err := svc.UpdateProfile(ctx, stu, roster.ProfileUpdate{PhotoURL: &photo, Nickname: &nick}); err != nil {
		t.Fatal(err)
	}
	if s, _ := st.Student("s1"); s.PhotoURL != photo || s.Name != "Ana" {
		t.Fatalf("student = %+v", s)
	}
}

func TestChangePIN(t *testing.T) {
	svc, st, gate := newService(portal.Data{
		Professors: []portal.Professor{
			{ID: "p1", PIN: "1111", HasAccess: true},
			{ID: "p2", PIN: "2222", HasAccess: true},
		},
		Students: []portal.Student{{ID: "s1", Email: "ana@test.com", PIN: "4444"}},
	}, nil)
	ctx := context.Background()
	stu, _ := gate.LoginStudent("ana@test.com", "4444")

	var verr *validator.ValidationError
	if err := svc.ChangePIN(ctx, stu, "123"); !errors.As(err, &verr) || verr.Message != roster.ShortPINMessage {
		t.Fatalf("short pin: %v", err)
	}
	if err := svc.ChangePIN(ctx, stu, "5678"); err != nil {
		t.Fatal(err)
	}
	if _, err := gate.LoginStudent("ana@test.com", "5678"); err != nil {
		t.Fatalf("new pin: %v", err)
	}

	prof, _ := gate.LoginProfessor("1111")
	if err := svc.ChangePIN(ctx, prof, "2222"); !errors.Is(err, portal.ErrDuplicatePIN) {
		t.Fatalf("taken pin: %v", err)
	}
	if err := svc.ChangePIN(ctx, prof, "9999"); !errors.Is(err, roster.ErrReservedPIN) {
		t.Fatalf("reserved pin: %v", err)
	}
	if p, _ := st.Professor("p1"); p.PIN != "1111" {
		t.Fatalf("pin changed on failure: %s", p.PIN)
	}

	admin, _ := gate.LoginProfessor("9999")
	if err := svc.ChangePIN(ctx, admin, "0000"); !errors.Is(err, roster.ErrSecretManaged) {
		t.Fatalf("admin: %v", err)
	}
}
