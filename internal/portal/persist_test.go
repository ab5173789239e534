package portal_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/profedug/GabaritaIF/internal/portal"
)

func TestLoadDefaults(t *testing.T) {
	d, err := portal.Load(context.Background(), newMemKV())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(d.Classes, portal.DefaultClasses()) {
		t.Fatalf("classes = %+v, want seeded default", d.Classes)
	}
	if d.Admin != portal.DefaultAdminProfile() {
		t.Fatalf("admin = %+v, want seeded default", d.Admin)
	}
	if len(d.Professors) != 0 || len(d.Students) != 0 || len(d.Simulations) != 0 || len(d.Results) != 0 {
		t.Fatalf("expected empty collections, got %+v", d)
	}
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	d, _ := portal.Load(ctx, kv)
	st := portal.NewState(d)
	st.Observe(portal.NewPersister(kv, nil))

	if err := st.AddClass(ctx, portal.Class{ID: "c1", Name: "9º Ano", Year: "2025"}); err != nil {
		t.Fatal(err)
	}
	if err := st.AddStudent(ctx, portal.Student{ID: "s1", Name: "Ana", Email: "ana@test.com", PIN: "1234", ClassID: "c1"}); err != nil {
		t.Fatal(err)
	}
	sim := portal.Simulation{
		ID: "sim1", Title: "Reforço: Frações", Type: portal.SimulationReinforcement, ClassID: "c1",
		Questions: []portal.Question{{ID: "q1", Statement: "1/2+1/2?", Options: []string{"1", "2", "0"}, CorrectAnswer: 0, Source: portal.SourceAI}},
	}
	if err := st.Publish(ctx, sim); err != nil {
		t.Fatal(err)
	}
	if err := st.AddResponse(ctx, portal.StudentResponse{ID: "r1", StudentID: "s1", SimulationID: "sim1", Answers: []*int{portal.Int(0), nil}, Score: 1}); err != nil {
		t.Fatal(err)
	}
	if err := st.UpdateAdminProfile(ctx, portal.AdminProfile{Name: "Edu", Nickname: "Dir"}); err != nil {
		t.Fatal(err)
	}

	reloaded, err := portal.Load(ctx, kv)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(reloaded, portal.Snapshot(st)) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", reloaded, portal.Snapshot(st))
	}
	if reloaded.Results[0].Answers[1] != nil {
		t.Fatal("unset answer slot should stay unset")
	}
}

func TestPersistWritesOnlyChangedCollection(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	d, _ := portal.Load(ctx, kv)
	st := portal.NewState(d)
	st.Observe(portal.NewPersister(kv, nil))

	if err := st.Publish(ctx, portal.Simulation{ID: "x"}); err != nil {
		t.Fatal(err)
	}
	want := []string{portal.StorageKey(portal.Simulations), portal.StorageKey(portal.Questions)}
	if !reflect.DeepEqual(kv.puts, want) {
		t.Fatalf("puts = %v, want %v", kv.puts, want)
	}
}

func TestPersistFailureIsReported(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	kv.failOn = portal.StorageKey(portal.Classes)
	st := portal.NewState(portal.Data{})
	st.Observe(portal.NewPersister(kv, nil))

	err := st.AddClass(ctx, portal.Class{ID: "c"})
	if !errors.Is(err, portal.ErrNotPersisted) {
		t.Fatalf("err = %v, want ErrNotPersisted", err)
	}
	if _, ok := st.Class("c"); !ok {
		t.Fatal("in-memory state should keep the mutation")
	}
	if errors.Is(err, portal.ErrNotFound) {
		t.Fatalf("unexpected error kind: %v", err)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	kv := newMemKV()
	kv.m[portal.StorageKey(portal.Students)] = []byte(`{not json`)
	if _, err := portal.Load(context.Background(), kv); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPersistOutlivesCancelledRequest(t *testing.T) {
	kv := newMemKV()
	d, _ := portal.Load(context.Background(), kv)
	st := portal.NewState(d)
	st.Observe(portal.NewPersister(kv, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp := portal.StudentResponse{ID: "r1", StudentID: "s1", SimulationID: "sim1", Answers: []*int{portal.Int(2)}, Score: 1}
	if err := st.AddResponse(ctx, resp); err != nil {
		t.Fatalf("add response with cancelled ctx: %v", err)
	}

	reloaded, err := portal.Load(context.Background(), kv)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Results) != 1 || reloaded.Results[0].ID != "r1" {
		t.Fatalf("results = %+v", reloaded.Results)
	}
}
