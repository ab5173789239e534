package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gemini "google.golang.org/genai"

	"github.com/profedug/GabaritaIF/internal/portal"
)

const DefaultModel = "gemini-3-flash-preview"

// GeminiClient implements QuestionGenerator, FeedbackGenerator and
// Recommender on the Gemini API.
type GeminiClient struct {
	models *gemini.Models
	Model  string
	NewID  func() string
}

// NewGeminiClient builds the SDK client. An empty baseURL uses the public
// endpoint; tests point it at a local server.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string) (*GeminiClient, error) {
	if model == "" {
		model = DefaultModel
	}
	cc := &gemini.ClientConfig{APIKey: apiKey, Backend: gemini.BackendGeminiAPI}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}
	// no client timeout: a pending generation is bounded by the caller's context only
	client, err := gemini.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai: new client: %w", err)
	}
	return &GeminiClient{models: client.Models, Model: model, NewID: portal.NewID}, nil
}

var questionSchema = &gemini.Schema{
	Type: gemini.TypeArray,
	Items: &gemini.Schema{
		Type: gemini.TypeObject,
		Properties: map[string]*gemini.Schema{
			"statement":     {Type: gemini.TypeString},
			"options":       {Type: gemini.TypeArray, Items: &gemini.Schema{Type: gemini.TypeString}},
			"correctAnswer": {Type: gemini.TypeInteger},
			"topic":         {Type: gemini.TypeString},
			"originInfo":    {Type: gemini.TypeString},
		},
		Required: []string{"statement", "options", "correctAnswer", "topic"},
	},
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, cfg *gemini.GenerateContentConfig) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.Model, gemini.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("genai: generateContent: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

type rawQuestion struct {
	Statement     string   `json:"statement"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Topic         string   `json:"topic"`
	OriginInfo    string   `json:"originInfo"`
}

func (c *GeminiClient) GenerateQuestions(ctx context.Context, req GenerateRequest) ([]portal.Question, error) {
	text, err := c.generate(ctx, questionsPrompt(req), &gemini.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   questionSchema,
	})
	if err != nil {
		return nil, err
	}
	var raw []rawQuestion
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedQuestions, err)
	}
	qs := make([]portal.Question, 0, len(raw))
	for _, r := range raw {
		src := portal.SourceAI
		if strings.TrimSpace(r.OriginInfo) != "" {
			src = portal.SourceEntrance
		}
		qs = append(qs, portal.Question{
			ID:            c.NewID(),
			Statement:     r.Statement,
			Options:       r.Options,
			CorrectAnswer: r.CorrectAnswer,
			Topic:         r.Topic,
			Difficulty:    req.Difficulty,
			Source:        src,
			OriginInfo:    r.OriginInfo,
		})
	}
	if err := CheckQuestions(qs, req); err != nil {
		return nil, err
	}
	return qs, nil
}

func (c *GeminiClient) GenerateFeedback(ctx context.Context, studentName string, sim portal.Simulation, resp portal.StudentResponse) (string, error) {
	text, err := c.generate(ctx, feedbackPrompt(studentName, sim, resp), nil)
	if err != nil {
		return "", err
	}
	if text = cleanText(text); text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *GeminiClient) RecommendForTeacher(ctx context.Context, req RecommendRequest) (string, error) {
	text, err := c.generate(ctx, recommendPrompt(req), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
