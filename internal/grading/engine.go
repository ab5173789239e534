package grading

import "github.com/profedug/GabaritaIF/internal/portal"

// Score counts the positions where the selected option equals the answer
// key. Unset or missing slots never count. It depends only on its inputs.
func Score(questions []portal.Question, answers []*int) int {
	score := 0
	for i, q := range questions {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		if *answers[i] == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Item is the outcome of one question in a finished attempt.
type Item struct {
	Index     int             `json:"index"`
	Question  portal.Question `json:"question"`
	Selected  *int            `json:"selected"`
	Correct   int             `json:"correct"`
	IsCorrect bool            `json:"isCorrect"`
}

// Breakdown walks questions and answers in lockstep.
func Breakdown(questions []portal.Question, answers []*int) []Item {
	out := make([]Item, 0, len(questions))
	for i, q := range questions {
		it := Item{Index: i, Question: q, Correct: q.CorrectAnswer}
		if i < len(answers) && answers[i] != nil {
			sel := *answers[i]
			it.Selected = &sel
			it.IsCorrect = sel == q.CorrectAnswer
		}
		out = append(out, it)
	}
	return out
}
