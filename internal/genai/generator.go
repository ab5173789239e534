// Package genai holds the contracts of the text-generation collaborators and
// a Gemini-backed implementation of them.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/profedug/GabaritaIF/internal/portal"
)

var (
	ErrEmptyResponse      = errors.New("genai: empty response")
	ErrMalformedQuestions = errors.New("genai: malformed question set")
)

const (
	FallbackFeedback       = "Você está no caminho certo para o Instituto Federal. Continue revisando!"
	FallbackRecommendation = "Foque na revisão dos conceitos fundamentais."
)

type GenerateRequest struct {
	Topic       string
	Audience    string
	Difficulty  portal.Difficulty
	Count       int
	OptionCount int
	SourceMix   portal.SourceMix
}

// QuestionGenerator returns exactly req.Count questions or an error; a
// partial set is never returned.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req GenerateRequest) ([]portal.Question, error)
}

type FeedbackGenerator interface {
	GenerateFeedback(ctx context.Context, studentName string, sim portal.Simulation, resp portal.StudentResponse) (string, error)
}

type RecommendRequest struct {
	Topic          string
	AverageScore   float64
	TotalQuestions int
	TotalStudents  int
	LowPerformance bool
}

type Recommender interface {
	RecommendForTeacher(ctx context.Context, req RecommendRequest) (string, error)
}

// FeedbackOrFallback always yields displayable text.
func FeedbackOrFallback(text string, err error) string {
	return orFallback(text, err, FallbackFeedback)
}

func RecommendationOrFallback(text string, err error) string {
	return orFallback(text, err, FallbackRecommendation)
}

func orFallback(text string, err error, fallback string) string {
	if err != nil {
		return fallback
	}
	if t := strings.TrimSpace(text); t != "" {
		return t
	}
	return fallback
}

// CheckQuestions enforces the generator contract on a raw result.
func CheckQuestions(qs []portal.Question, req GenerateRequest) error {
	if len(qs) != req.Count {
		return fmt.Errorf("%w: got %d questions, want %d", ErrMalformedQuestions, len(qs), req.Count)
	}
	for i, q := range qs {
		if strings.TrimSpace(q.Statement) == "" {
			return fmt.Errorf("%w: question %d has no statement", ErrMalformedQuestions, i)
		}
		if len(q.Options) != req.OptionCount {
			return fmt.Errorf("%w: question %d has %d options, want %d", ErrMalformedQuestions, i, len(q.Options), req.OptionCount)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("%w: question %d answer index %d out of range", ErrMalformedQuestions, i, q.CorrectAnswer)
		}
	}
	return nil
}

// cleanText strips markdown emphasis and headings the model likes to add.
func cleanText(s string) string {
	s = strings.NewReplacer("*", "", "#", "").Replace(s)
	return strings.TrimSpace(s)
}
