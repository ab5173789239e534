// Package quiz runs one student's attempt at a simulation, from the first
// question to the stored response.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/profedug/GabaritaIF/internal/genai"
	"github.com/profedug/GabaritaIF/internal/grading"
	"github.com/profedug/GabaritaIF/internal/portal"
)

type Phase string

const (
	PhaseAnswering       Phase = "answering"
	PhaseScoring         Phase = "scoring"
	PhaseFeedbackPending Phase = "feedback_pending"
	PhaseFinished        Phase = "finished"
	PhaseEmitted         Phase = "emitted"
)

var (
	ErrAlreadyCompleted = errors.New("quiz: simulation already completed")
	ErrNotVisible       = errors.New("quiz: simulation not available to this student")
	ErrNoQuestions      = errors.New("quiz: simulation has no questions")
	ErrNoSelection      = errors.New("quiz: select an option before advancing")
	ErrOptionRange      = errors.New("quiz: option out of range")
	ErrWrongPhase       = errors.New("quiz: action not allowed now")
)

// Run is one attempt. Progress lives only here until Confirm stores the
// response; dropping a Run discards the attempt.
type Run struct {
	state    *portal.State
	feedback genai.FeedbackGenerator
	now      func() time.Time

	sim     portal.Simulation
	student portal.Student

	mu       sync.Mutex
	phase    Phase
	index    int
	answers  []*int
	score    int
	text     string
	finishAt int64
	emitted  *portal.StudentResponse
}

// Start opens an attempt for a student who can see sim and has not yet
// completed it.
func Start(state *portal.State, fb genai.FeedbackGenerator, sim portal.Simulation, st portal.Student) (*Run, error) {
	if !sim.VisibleTo(st) {
		return nil, ErrNotVisible
	}
	if state.HasCompleted(st.ID, sim.ID) {
		return nil, ErrAlreadyCompleted
	}
	if len(sim.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Run{
		state:    state,
		feedback: fb,
		now:      time.Now,
		sim:      sim,
		student:  st,
		phase:    PhaseAnswering,
		answers:  make([]*int, len(sim.Questions)),
	}, nil
}

// Select records the option for the current question. The last selection
// wins.
func (r *Run) Select(option int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseAnswering {
		return ErrWrongPhase
	}
	if option < 0 || option >= len(r.sim.Questions[r.index].Options) {
		return fmt.Errorf("%w: %d", ErrOptionRange, option)
	}
	r.answers[r.index] = portal.Int(option)
	return nil
}

// Advance moves to the next question. Past the last one it scores the
// attempt and asks for feedback; a failed feedback call still finishes the
// run with the fallback text.
func (r *Run) Advance(ctx context.Context) (View, error) {
	r.mu.Lock()
	if r.phase != PhaseAnswering {
		r.mu.Unlock()
		return View{}, ErrWrongPhase
	}
	if r.answers[r.index] == nil {
		r.mu.Unlock()
		return View{}, ErrNoSelection
	}
	if r.index < len(r.sim.Questions)-1 {
		r.index++
		r.mu.Unlock()
		return r.Current(), nil
	}

	r.phase = PhaseScoring
	r.score = grading.Score(r.sim.Questions, r.answers)
	r.finishAt = r.now().UnixMilli()
	r.phase = PhaseFeedbackPending
	pending := r.responseLocked()
	r.mu.Unlock()

	text, err := r.feedback.GenerateFeedback(ctx, r.student.Name, r.sim, pending)

	r.mu.Lock()
	r.text = genai.FeedbackOrFallback(text, err)
	r.phase = PhaseFinished
	r.mu.Unlock()
	return r.Current(), nil
}

// Confirm stores the finished attempt once. Later calls return the same
// response. A storage failure wrapping portal.ErrNotPersisted still leaves
// the response recorded in memory.
func (r *Run) Confirm(ctx context.Context) (portal.StudentResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.phase {
	case PhaseEmitted:
		return *r.emitted, nil
	case PhaseFinished:
	default:
		return portal.StudentResponse{}, ErrWrongPhase
	}
	resp := r.responseLocked()
	resp.ID = portal.NewID()
	resp.Feedback = r.text
	err := r.state.AddResponse(ctx, resp)
	if err != nil && !errors.Is(err, portal.ErrNotPersisted) {
		return portal.StudentResponse{}, err
	}
	r.phase, r.emitted = PhaseEmitted, &resp
	return resp, err
}

func (r *Run) responseLocked() portal.StudentResponse {
	return portal.StudentResponse{
		StudentID:    r.student.ID,
		StudentName:  r.student.Name,
		SimulationID: r.sim.ID,
		Answers:      slices.Clone(r.answers),
		Score:        r.score,
		Timestamp:    r.finishAt,
	}
}

// QuestionView is a question as the student sees it, without the key.
type QuestionView struct {
	ID         string            `json:"id"`
	Statement  string            `json:"statement"`
	Options    []string          `json:"options"`
	Topic      string            `json:"topic"`
	Difficulty portal.Difficulty `json:"difficulty"`
}

type View struct {
	Phase        Phase         `json:"phase"`
	SimulationID string        `json:"simulationId"`
	Title        string        `json:"title"`
	Index        int           `json:"index"`
	Total        int           `json:"total"`
	Question     *QuestionView `json:"question,omitempty"`
	Selected     *int          `json:"selected"`
	Progress     float64       `json:"progress"` // percent, counting the current question
	IsLast       bool          `json:"isLast"`
	Score        *int          `json:"score,omitempty"`
	Feedback     string        `json:"feedback,omitempty"`
}

func (r *Run) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := len(r.sim.Questions)
	v := View{
		Phase:        r.phase,
		SimulationID: r.sim.ID,
		Title:        r.sim.Title,
		Index:        r.index,
		Total:        total,
		Progress:     float64(r.index+1) / float64(total) * 100,
		IsLast:       r.index == total-1,
	}
	switch r.phase {
	case PhaseAnswering:
		q := r.sim.Questions[r.index]
		v.Question = &QuestionView{
			ID:         q.ID,
			Statement:  q.Statement,
			Options:    slices.Clone(q.Options),
			Topic:      q.Topic,
			Difficulty: q.Difficulty,
		}
		if sel := r.answers[r.index]; sel != nil {
			v.Selected = portal.Int(*sel)
		}
	case PhaseFinished, PhaseEmitted:
		v.Score = portal.Int(r.score)
		v.Feedback = r.text
	}
	return v
}
