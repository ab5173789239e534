package portal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/profedug/GabaritaIF/internal/portal"
)

func TestStudentEmailUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	st := portal.NewState(portal.Data{})
	if err := st.AddStudent(ctx, portal.Student{ID: "s1", Email: "Ana@Test.com"}); err != nil {
		t.Fatal(err)
	}
	if err := st.AddStudent(ctx, portal.Student{ID: "s2", Email: "ana@test.COM"}); !errors.Is(err, portal.ErrDuplicateEmail) {
		t.Fatalf("add duplicate: got %v", err)
	}
	if err := st.AddStudent(ctx, portal.Student{ID: "s2", Email: "bia@test.com"}); err != nil {
		t.Fatal(err)
	}
	if err := st.UpdateStudent(ctx, portal.Student{ID: "s2", Email: "ANA@test.com"}); !errors.Is(err, portal.ErrDuplicateEmail) {
		t.Fatalf("update to duplicate: got %v", err)
	}
	// keeping one's own email is fine
	if err := st.UpdateStudent(ctx, portal.Student{ID: "s1", Name: "Ana", Email: "ana@test.com"}); err != nil {
		t.Fatal(err)
	}
	got, ok := st.StudentByEmail("ANA@TEST.COM")
	if !ok || got.ID != "s1" || got.Name != "Ana" {
		t.Fatalf("lookup = %+v ok=%v", got, ok)
	}
}

func TestProfessorPINUnique(t *testing.T) {
	ctx := context.Background()
	st := portal.NewState(portal.Data{})
	if err := st.AddProfessor(ctx, portal.Professor{ID: "p1", PIN: "1111"}); err != nil {
		t.Fatal(err)
	}
	if err := st.AddProfessor(ctx, portal.Professor{ID: "p2", PIN: "1111"}); !errors.Is(err, portal.ErrDuplicatePIN) {
		t.Fatalf("got %v", err)
	}
	if err := st.UpdateProfessor(ctx, portal.Professor{ID: "p1", PIN: "1111", Name: "Renamed"}); err != nil {
		t.Fatal(err)
	}
}

func TestProfessorByPINFirstMatch(t *testing.T) {
	// Legacy data may contain colliding PINs; storage order decides.
	st := portal.NewState(portal.Data{Professors: []portal.Professor{
		{ID: "p1", PIN: "0000"},
		{ID: "p2", PIN: "0000"},
	}})
	p, ok := st.ProfessorByPIN("0000")
	if !ok || p.ID != "p1" {
		t.Fatalf("got %+v", p)
	}
}

func TestRemoveMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	st := portal.NewState(portal.Data{})
	for name, err := range map[string]error{
		"student":   st.RemoveStudent(ctx, "x"),
		"class":     st.RemoveClass(ctx, "x"),
		"professor": st.RemoveProfessor(ctx, "x"),
		"update":    st.UpdateStudent(ctx, portal.Student{ID: "x"}),
	} {
		if !errors.Is(err, portal.ErrNotFound) {
			t.Errorf("%s: got %v", name, err)
		}
	}
}

func TestRemoveClassLeavesDanglingReference(t *testing.T) {
	ctx := context.Background()
	st := portal.NewState(portal.Data{
		Classes:  []portal.Class{{ID: "c1", Name: "8º Ano"}},
		Students: []portal.Student{{ID: "s1", ClassID: "c1"}},
	})
	if got := st.ClassName("c1"); got != "8º Ano" {
		t.Fatalf("class name = %q", got)
	}
	if err := st.RemoveClass(ctx, "c1"); err != nil {
		t.Fatal(err)
	}
	s, _ := st.Student("s1")
	if s.ClassID != "c1" {
		t.Fatal("student class reference must not cascade")
	}
	if got := st.ClassName(s.ClassID); got != portal.NoClassLabel {
		t.Fatalf("dangling class name = %q", got)
	}
}

func TestObserverSeesEveryMutation(t *testing.T) {
	ctx := context.Background()
	st := portal.NewState(portal.Data{})
	var seen []portal.Collection
	st.Observe(portal.ObserverFunc(func(_ context.Context, c portal.Collection, _ any) error {
		seen = append(seen, c)
		return nil
	}))
	_ = st.AddClass(ctx, portal.Class{ID: "c"})
	_ = st.AddProfessor(ctx, portal.Professor{ID: "p", PIN: "9"})
	_ = st.AddResponse(ctx, portal.StudentResponse{ID: "r"})
	_ = st.UpdateAdminProfile(ctx, portal.AdminProfile{Name: "x"})

	want := []portal.Collection{portal.Classes, portal.Professors, portal.Results, portal.Admin}
	if len(seen) != len(want) {
		t.Fatalf("seen %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen %v, want %v", seen, want)
		}
	}
}

func TestPublishCopiesQuestions(t *testing.T) {
	ctx := context.Background()
	st := portal.NewState(portal.Data{})
	qs := []portal.Question{{ID: "q1", Statement: "orig"}}
	if err := st.Publish(ctx, portal.Simulation{ID: "s", Questions: qs}); err != nil {
		t.Fatal(err)
	}
	qs[0].Statement = "edited"

	sim, _ := st.Simulation("s")
	if sim.Questions[0].Statement != "orig" {
		t.Fatal("simulation questions must not alias the caller's slice")
	}
	if sim.TargetStudentIDs == nil {
		t.Fatal("target list should be empty, not nil")
	}
	if len(st.Questions()) != 1 {
		t.Fatal("question bank should receive the published questions")
	}
}
