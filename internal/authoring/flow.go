// Package authoring drives a teacher from quiz parameters to a published
// simulation.
package authoring

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/profedug/GabaritaIF/internal/genai"
	"github.com/profedug/GabaritaIF/internal/portal"
	"github.com/profedug/GabaritaIF/internal/validator"
)

type Phase string

const (
	PhaseParameterEntry Phase = "parameter_entry"
	PhaseGenerating     Phase = "generating"
	PhasePreview        Phase = "preview"
)

const (
	MissingFieldsMessage   = "Preencha o tema e a turma."
	InvalidParamsMessage   = "Parâmetros inválidos."
	GenerationFailedNotice = "Erro ao gerar questões."
)

var (
	ErrBusy         = errors.New("authoring: generation in progress")
	ErrDraftPending = errors.New("authoring: a draft is waiting to be published or discarded")
	ErrNoDraft      = errors.New("authoring: no draft to act on")
	ErrGeneration   = errors.New("authoring: question generation failed")
)

const (
	DefaultAudience    = "Ingresso IF"
	DefaultCount       = 5
	DefaultOptionCount = 4
)

// Params are the teacher's choices for one quiz. Zero values take the
// defaults of the authoring form.
type Params struct {
	Topic            string                `json:"topic" validate:"notblank"`
	Audience         string                `json:"audience"`
	Difficulty       portal.Difficulty     `json:"difficulty" validate:"difficulty"`
	Count            int                   `json:"count" validate:"min=1,max=20"`
	OptionCount      int                   `json:"optionCount" validate:"min=3,max=5"`
	Type             portal.SimulationType `json:"type" validate:"simtype"`
	ClassID          string                `json:"classId" validate:"notblank"`
	SourceMix        portal.SourceMix      `json:"sourceMix" validate:"sourcemix"`
	TargetStudentIDs []string              `json:"targetStudentIds,omitempty"`
}

func (p Params) withDefaults() Params {
	if p.Audience == "" {
		p.Audience = DefaultAudience
	}
	if p.Difficulty == "" {
		p.Difficulty = portal.DifficultyMedium
	}
	if p.Count == 0 {
		p.Count = DefaultCount
	}
	if p.OptionCount == 0 {
		p.OptionCount = DefaultOptionCount
	}
	if p.Type == "" {
		p.Type = portal.SimulationTraining
	}
	if p.SourceMix == "" {
		p.SourceMix = portal.SourceMixMixed
	}
	return p
}

func (p Params) request() genai.GenerateRequest {
	return genai.GenerateRequest{
		Topic:       p.Topic,
		Audience:    p.Audience,
		Difficulty:  p.Difficulty,
		Count:       p.Count,
		OptionCount: p.OptionCount,
		SourceMix:   p.SourceMix,
	}
}

// View is what the authoring screen renders. Draft questions keep their
// answer key so the teacher can review it.
type View struct {
	Phase  Phase             `json:"phase"`
	Params Params            `json:"params"`
	Draft  []portal.Question `json:"draft"`
	Notice string            `json:"notice,omitempty"`
}

// Flow is one teacher's authoring session. At most one generation runs at a
// time; there is no cancellation once it starts.
type Flow struct {
	state    *portal.State
	gen      genai.QuestionGenerator
	validate *validator.Validator
	now      func() time.Time

	mu     sync.Mutex
	phase  Phase
	params Params
	draft  []portal.Question
	notice string
}

func NewFlow(state *portal.State, gen genai.QuestionGenerator, v *validator.Validator) *Flow {
	if v == nil {
		v = validator.New()
	}
	return &Flow{
		state:    state,
		gen:      gen,
		validate: v,
		now:      time.Now,
		phase:    PhaseParameterEntry,
		params:   Params{}.withDefaults(),
	}
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{
		Phase:  f.phase,
		Params: f.params,
		Draft:  slices.Clone(f.draft),
		Notice: f.notice,
	}
}

// Generate validates p and asks the generator for a draft. Invalid params
// return a *validator.ValidationError without calling the generator. A
// generator failure returns to parameter entry with a generic notice.
func (f *Flow) Generate(ctx context.Context, p Params) (View, error) {
	f.mu.Lock()
	switch f.phase {
	case PhaseGenerating:
		f.mu.Unlock()
		return View{}, ErrBusy
	case PhasePreview:
		f.mu.Unlock()
		return View{}, ErrDraftPending
	}
	p = p.withDefaults()
	f.params = p
	if err := f.check(p); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			f.notice = verr.Message
		}
		f.mu.Unlock()
		return f.View(), err
	}
	f.phase, f.notice = PhaseGenerating, ""
	f.mu.Unlock()

	req := p.request()
	qs, err := f.gen.GenerateQuestions(ctx, req)
	if err == nil {
		err = genai.CheckQuestions(qs, req)
	}

	f.mu.Lock()
	if err != nil {
		f.phase, f.notice = PhaseParameterEntry, GenerationFailedNotice
		f.mu.Unlock()
		return f.View(), fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	f.phase, f.draft = PhasePreview, qs
	f.mu.Unlock()
	return f.View(), nil
}

func (f *Flow) check(p Params) error {
	err := f.validate.Struct(p, InvalidParamsMessage)
	var verr *validator.ValidationError
	if errors.As(err, &verr) && (verr.Has("Topic") || verr.Has("ClassID")) {
		verr.Message = MissingFieldsMessage
	}
	return err
}

// Discard drops the draft and returns to parameter entry. Nothing is stored.
func (f *Flow) Discard() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhasePreview {
		return ErrNoDraft
	}
	f.phase, f.draft, f.notice = PhaseParameterEntry, nil, ""
	return nil
}

// Publish turns the draft into a simulation owned by author, stores it with
// its questions and clears the draft. A non-nil error wrapping
// portal.ErrNotPersisted still returns the published simulation.
func (f *Flow) Publish(ctx context.Context, author portal.Professor) (portal.Simulation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase != PhasePreview {
		return portal.Simulation{}, ErrNoDraft
	}
	targets := slices.Clone(f.params.TargetStudentIDs)
	if targets == nil {
		targets = []string{}
	}
	sim := portal.Simulation{
		ID:               portal.NewID(),
		Title:            fmt.Sprintf("%s: %s", f.params.Type, f.params.Topic),
		Type:             f.params.Type,
		Questions:        slices.Clone(f.draft),
		CreatedAt:        f.now().UnixMilli(),
		TeacherID:        author.ID,
		TeacherName:      author.DisplayName(),
		Year:             f.params.Audience,
		ClassID:          f.params.ClassID,
		TargetStudentIDs: targets,
	}
	err := f.state.Publish(ctx, sim)
	if err != nil && !errors.Is(err, portal.ErrNotPersisted) {
		return portal.Simulation{}, err
	}
	f.phase, f.draft, f.notice = PhaseParameterEntry, nil, ""
	return sim, err
}
