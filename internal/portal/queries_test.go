package portal_test

import (
	"context"
	"testing"

	"github.com/profedug/GabaritaIF/internal/portal"
)

func TestVisibleTo(t *testing.T) {
	ana := portal.Student{ID: "s1", ClassID: "c1"}
	tests := []struct {
		name string
		sim  portal.Simulation
		want bool
	}{
		{"no class no targets", portal.Simulation{}, true},
		{"same class", portal.Simulation{ClassID: "c1"}, true},
		{"other class", portal.Simulation{ClassID: "c2"}, false},
		{"targeted in other class", portal.Simulation{ClassID: "c2", TargetStudentIDs: []string{"s1"}}, true},
		{"targets exclude student", portal.Simulation{ClassID: "c1", TargetStudentIDs: []string{"s9"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sim.VisibleTo(ana); got != tt.want {
				t.Fatalf("VisibleTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasCompleted(t *testing.T) {
	ctx := context.Background()
	st := portal.NewState(portal.Data{})
	if st.HasCompleted("s1", "sim1") {
		t.Fatal("no response yet")
	}
	_ = st.AddResponse(ctx, portal.StudentResponse{ID: "r1", StudentID: "s1", SimulationID: "sim1"})
	if !st.HasCompleted("s1", "sim1") {
		t.Fatal("response exists")
	}
	if st.HasCompleted("s2", "sim1") || st.HasCompleted("s1", "sim2") {
		t.Fatal("completion must match both ids")
	}
}

func TestSimulationStats(t *testing.T) {
	ctx := context.Background()
	st := portal.NewState(portal.Data{})
	sim := portal.Simulation{ID: "sim", Questions: make([]portal.Question, 4)}
	if got := st.SimulationStats(sim); got.Respondents != 0 || got.AverageScore != 0 {
		t.Fatalf("empty stats = %+v", got)
	}
	_ = st.AddResponse(ctx, portal.StudentResponse{ID: "a", SimulationID: "sim", Score: 1, Timestamp: 1})
	_ = st.AddResponse(ctx, portal.StudentResponse{ID: "b", SimulationID: "sim", Score: 2, Timestamp: 2})
	got := st.SimulationStats(sim)
	if got.Respondents != 2 || got.AverageScore != 1.5 || !got.LowPerformance() {
		t.Fatalf("stats = %+v low=%v", got, got.LowPerformance())
	}
	if rs := st.ResultsForSimulation("sim"); rs[0].ID != "b" {
		t.Fatal("results should be newest first")
	}
}
