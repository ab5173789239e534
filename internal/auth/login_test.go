package auth_test

import (
	"testing"

	"github.com/profedug/GabaritaIF/internal/auth"
)

func TestUnknownEmailStaysOnEmailStep(t *testing.T) {
	g := auth.NewGate(fixture(), auth.Secret{})
	l := auth.NewLogin()
	l.ChooseStudent()
	l.Email = "x@test.com"
	if l.SubmitEmail(g) {
		t.Fatal("unknown email accepted")
	}
	if l.View != auth.ViewStudentEmail || l.Error != auth.ErrEmailNotFound.Message {
		t.Fatalf("login = %+v", l)
	}
}

func TestRevokedProfessorGetsNoSession(t *testing.T) {
	g := auth.NewGate(fixture(), auth.Secret{})
	l := auth.NewLogin()
	l.ChooseProfessor()
	l.PIN = "3333"
	if _, ok := l.SubmitProfessor(g); ok {
		t.Fatal("revoked professor logged in")
	}
	if l.View != auth.ViewProfessorLogin || l.Error != auth.ErrAccessRevoked.Message {
		t.Fatalf("login = %+v", l)
	}
}

func TestStudentLoginSteps(t *testing.T) {
	g := auth.NewGate(fixture(), auth.Secret{})
	l := auth.NewLogin()
	l.ChooseStudent()
	l.Email = "ana@test.com"
	if !l.SubmitEmail(g) || l.View != auth.ViewStudentPIN {
		t.Fatalf("email step: %+v", l)
	}
	l.PIN = "0000"
	if _, ok := l.SubmitStudent(g); ok || l.Error != auth.ErrIncorrectPIN.Message {
		t.Fatalf("bad pin: %+v", l)
	}
	l.PIN = "4444"
	a, ok := l.SubmitStudent(g)
	if !ok || a.ID() != "s1" {
		t.Fatalf("login: %+v", l)
	}
	l.Logout()
	if l.View != auth.ViewSelection || l.Email != "" || l.PIN != "" || l.Error != "" {
		t.Fatalf("logout = %+v", l)
	}
}

func TestSessions(t *testing.T) {
	g := auth.NewGate(fixture(), auth.Secret{})
	a, err := g.LoginProfessor("1111")
	if err != nil {
		t.Fatal(err)
	}
	s := auth.NewSessions()
	sess := s.Start(a)
	got, ok := s.Get(sess.ID)
	if !ok || got.Actor().ID() != "p1" {
		t.Fatalf("get = %+v %v", got, ok)
	}
	s.End(sess.ID)
	if _, ok := s.Get(sess.ID); ok {
		t.Fatal("session should be gone")
	}
}
