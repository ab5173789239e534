package portal

import (
	"slices"
	"sort"
)

// VisibleTo reports whether a student may see sim. A non-empty target list
// decides alone; otherwise the simulation is open to its class, or to
// everyone when it has no class.
func (sim Simulation) VisibleTo(st Student) bool {
	if len(sim.TargetStudentIDs) > 0 {
		return slices.Contains(sim.TargetStudentIDs, st.ID)
	}
	return sim.ClassID == "" || sim.ClassID == st.ClassID
}

func (s *State) VisibleSimulations(st Student) []Simulation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Simulation
	for _, sim := range s.d.Simulations {
		if sim.VisibleTo(st) {
			out = append(out, sim)
		}
	}
	return out
}

// HasCompleted is true once any response exists for the pair.
func (s *State) HasCompleted(studentID, simulationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.d.Results, func(r StudentResponse) bool {
		return r.StudentID == studentID && r.SimulationID == simulationID
	})
}

func (s *State) ResultsForStudent(studentID string) []StudentResponse {
	return s.resultsWhere(func(r StudentResponse) bool { return r.StudentID == studentID })
}

func (s *State) ResultsForSimulation(simulationID string) []StudentResponse {
	return s.resultsWhere(func(r StudentResponse) bool { return r.SimulationID == simulationID })
}

func (s *State) resultsWhere(keep func(StudentResponse) bool) []StudentResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []StudentResponse
	for _, r := range s.d.Results {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

// Stats summarises the finished attempts of one simulation.
type Stats struct {
	Respondents  int     `json:"respondents"`
	Questions    int     `json:"questions"`
	AverageScore float64 `json:"averageScore"`
}

// LowPerformance is true when the class averaged below half the questions.
func (st Stats) LowPerformance() bool {
	return st.Questions > 0 && st.AverageScore < float64(st.Questions)/2
}

func (s *State) SimulationStats(sim Simulation) Stats {
	rs := s.ResultsForSimulation(sim.ID)
	st := Stats{Respondents: len(rs), Questions: len(sim.Questions)}
	if len(rs) == 0 {
		return st
	}
	total := 0
	for _, r := range rs {
		total += r.Score
	}
	st.AverageScore = float64(total) / float64(len(rs))
	return st
}
