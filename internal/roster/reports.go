package roster

import (
	"context"
	"fmt"

	"github.com/profedug/GabaritaIF/internal/genai"
	"github.com/profedug/GabaritaIF/internal/grading"
	"github.com/profedug/GabaritaIF/internal/portal"
)

// HistoryEntry is one finished attempt in a student's history.
type HistoryEntry struct {
	portal.StudentResponse
	SimulationTitle string `json:"simulationTitle"`
	ClassName       string `json:"className"`
	Total           int    `json:"total"`
}

// StudentHistory lists a student's attempts, newest first. Attempts whose
// simulation no longer resolves keep an empty title.
func (s *Service) StudentHistory(studentID string) ([]HistoryEntry, error) {
	st, ok := s.state.Student(studentID)
	if !ok {
		return nil, fmt.Errorf("student %s: %w", studentID, portal.ErrNotFound)
	}
	rs := s.state.ResultsForStudent(studentID)
	out := make([]HistoryEntry, 0, len(rs))
	for _, r := range rs {
		e := HistoryEntry{StudentResponse: r, ClassName: s.state.ClassName(st.ClassID)}
		if sim, ok := s.state.Simulation(r.SimulationID); ok {
			e.SimulationTitle = sim.Title
			e.Total = len(sim.Questions)
		}
		out = append(out, e)
	}
	return out, nil
}

type ResultBreakdown struct {
	Result          portal.StudentResponse `json:"result"`
	SimulationTitle string                 `json:"simulationTitle"`
	Items           []grading.Item         `json:"items"`
}

func (s *Service) Breakdown(resultID string) (ResultBreakdown, error) {
	r, ok := s.state.Result(resultID)
	if !ok {
		return ResultBreakdown{}, fmt.Errorf("result %s: %w", resultID, portal.ErrNotFound)
	}
	sim, ok := s.state.Simulation(r.SimulationID)
	if !ok {
		return ResultBreakdown{}, fmt.Errorf("simulation %s: %w", r.SimulationID, portal.ErrNotFound)
	}
	return ResultBreakdown{
		Result:          r,
		SimulationTitle: sim.Title,
		Items:           grading.Breakdown(sim.Questions, r.Answers),
	}, nil
}

type Summary struct {
	Simulation     portal.Simulation        `json:"simulation"`
	ClassName      string                   `json:"className"`
	Stats          portal.Stats             `json:"stats"`
	LowPerformance bool                     `json:"lowPerformance"`
	Results        []portal.StudentResponse `json:"results"`
	Recommendation string                   `json:"recommendation,omitempty"`
}

// SimulationSummary aggregates a simulation's attempts. Once someone has
// answered, it asks for a teaching recommendation and falls back to a fixed
// one when the generator fails.
func (s *Service) SimulationSummary(ctx context.Context, simID string) (Summary, error) {
	sim, ok := s.state.Simulation(simID)
	if !ok {
		return Summary{}, fmt.Errorf("simulation %s: %w", simID, portal.ErrNotFound)
	}
	stats := s.state.SimulationStats(sim)
	sum := Summary{
		Simulation:     sim,
		ClassName:      s.state.ClassName(sim.ClassID),
		Stats:          stats,
		LowPerformance: stats.LowPerformance(),
		Results:        s.state.ResultsForSimulation(simID),
	}
	if stats.Respondents == 0 || s.rec == nil {
		return sum, nil
	}
	topic := sim.Title
	if len(sim.Questions) > 0 && sim.Questions[0].Topic != "" {
		topic = sim.Questions[0].Topic
	}
	text, err := s.rec.RecommendForTeacher(ctx, genai.RecommendRequest{
		Topic:          topic,
		AverageScore:   stats.AverageScore,
		TotalQuestions: stats.Questions,
		TotalStudents:  stats.Respondents,
		LowPerformance: stats.LowPerformance(),
	})
	if err != nil {
		s.log.WarnContext(ctx, "teacher recommendation failed", "simulation", simID, "error", err)
	}
	sum.Recommendation = genai.RecommendationOrFallback(text, err)
	return sum, nil
}

// MuralEntry is a simulation on a student's wall.
type MuralEntry struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Type        portal.SimulationType `json:"type"`
	TeacherName string                `json:"teacherName"`
	Questions   int                   `json:"questions"`
	CreatedAt   int64                 `json:"createdAt"`
	Completed   bool                  `json:"completed"`
}

// Mural lists the simulations a student can see and whether each one was
// already taken.
func (s *Service) Mural(st portal.Student) []MuralEntry {
	sims := s.state.VisibleSimulations(st)
	out := make([]MuralEntry, 0, len(sims))
	for _, sim := range sims {
		out = append(out, MuralEntry{
			ID:          sim.ID,
			Title:       sim.Title,
			Type:        sim.Type,
			TeacherName: sim.TeacherName,
			Questions:   len(sim.Questions),
			CreatedAt:   sim.CreatedAt,
			Completed:   s.state.HasCompleted(st.ID, sim.ID),
		})
	}
	return out
}
