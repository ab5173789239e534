package genai

import (
	"context"
	"fmt"
	"sync"

	"github.com/profedug/GabaritaIF/internal/portal"
)

// Fake is an offline generator. It answers deterministically, records calls
// and fails when the matching Err field is set.
type Fake struct {
	mu sync.Mutex

	QuestionsErr error
	FeedbackErr  error
	RecommendErr error

	QuestionCalls int
	FeedbackCalls int
	LastFeedback  portal.StudentResponse
}

func (f *Fake) GenerateQuestions(_ context.Context, req GenerateRequest) ([]portal.Question, error) {
	f.mu.Lock()
	f.QuestionCalls++
	f.mu.Unlock()
	if f.QuestionsErr != nil {
		return nil, f.QuestionsErr
	}
	if req.OptionCount < 1 {
		return nil, ErrMalformedQuestions
	}
	qs := make([]portal.Question, req.Count)
	for i := range qs {
		opts := make([]string, req.OptionCount)
		for j := range opts {
			opts[j] = fmt.Sprintf("Alternativa %c", 'A'+j)
		}
		qs[i] = portal.Question{
			ID:            portal.NewID(),
			Statement:     fmt.Sprintf("%s: questão %d", req.Topic, i+1),
			Options:       opts,
			CorrectAnswer: i % req.OptionCount,
			Topic:         req.Topic,
			Difficulty:    req.Difficulty,
			Source:        portal.SourceAI,
		}
	}
	return qs, nil
}

func (f *Fake) GenerateFeedback(_ context.Context, studentName string, sim portal.Simulation, resp portal.StudentResponse) (string, error) {
	f.mu.Lock()
	f.FeedbackCalls++
	f.LastFeedback = resp
	f.mu.Unlock()
	if f.FeedbackErr != nil {
		return "", f.FeedbackErr
	}
	return fmt.Sprintf("%s, você acertou %d de %d. Continue assim!", studentName, resp.Score, len(sim.Questions)), nil
}

func (f *Fake) RecommendForTeacher(_ context.Context, req RecommendRequest) (string, error) {
	if f.RecommendErr != nil {
		return "", f.RecommendErr
	}
	if req.LowPerformance {
		return fmt.Sprintf("Retome os fundamentos de %s antes do próximo simulado.", req.Topic), nil
	}
	return fmt.Sprintf("A turma vai bem em %s; aumente a dificuldade.", req.Topic), nil
}
