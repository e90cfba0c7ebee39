package services

import (
	"github.com/shopspring/decimal"

	"academykit-backend/internal/models"
)

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Answer is one submitted answer: the question and the option ids the user
// selected. It is input to scoring only, never persisted on its own.
type Answer struct {
	QuestionID uint   `json:"question_id"`
	OptionIDs  []uint `json:"option_ids"`
}

type ScoredResult struct {
	ObtainedMarks decimal.Decimal `json:"obtained_marks"`
	NegativeMarks decimal.Decimal `json:"negative_marks"`
	TotalMarks    decimal.Decimal `json:"total_marks"`
	Percentage    decimal.Decimal `json:"percentage"`
	HasPassed     bool            `json:"has_passed"`
}

// Score grades answers against the question set's stored correct options.
//
// Single and multiple choice are both graded by exact set equality between the
// selected option ids and the options authored as correct: no partial credit
// for subsets. A wrong, non-empty selection deducts negativeMarking *
// marksPerQuestion; skipped questions contribute zero either way. Subjective
// questions are left to manual review and contribute nothing. The net score is
// floored at zero for the submission as a whole, and the pass percentage is
// computed once at the end. A question set with total marks or passing
// weightage of zero has no pass threshold configured: has_passed stays false.
func (s *ScoringService) Score(set *models.QuestionSet, questions []models.Question, answers []Answer) ScoredResult {
	selectedByQuestion := make(map[uint][]uint, len(answers))
	for _, a := range answers {
		selectedByQuestion[a.QuestionID] = a.OptionIDs
	}

	obtained := decimal.Zero
	negative := decimal.Zero
	for i := range questions {
		q := &questions[i]
		if !q.Scorable() {
			continue
		}
		selected := selectedByQuestion[q.ID]
		if len(selected) == 0 {
			continue // skipped, never negative
		}
		if selectionCorrect(q, selected) {
			obtained = obtained.Add(set.MarksPerQuestion)
		} else if set.NegativeMarking.IsPositive() {
			negative = negative.Add(set.NegativeMarking.Mul(set.MarksPerQuestion))
		}
	}

	net := obtained.Sub(negative)
	if net.IsNegative() {
		net = decimal.Zero
	}

	result := ScoredResult{
		ObtainedMarks: obtained,
		NegativeMarks: negative,
		TotalMarks:    set.TotalMarks,
	}
	if set.TotalMarks.IsPositive() {
		result.Percentage = net.Div(set.TotalMarks).Mul(decimal.NewFromInt(100))
		if set.PassingWeightage.IsPositive() {
			result.HasPassed = result.Percentage.GreaterThanOrEqual(set.PassingWeightage)
		}
	}
	return result
}

// selectionCorrect reports whether selected matches the correct option set
// exactly. Option ids that do not belong to the question break the match.
func selectionCorrect(q *models.Question, selected []uint) bool {
	correct := make(map[uint]bool)
	for _, o := range q.Options {
		if o.IsCorrect {
			correct[o.ID] = true
		}
	}
	if len(correct) == 0 {
		return false
	}

	picked := make(map[uint]bool, len(selected))
	for _, id := range selected {
		picked[id] = true
	}
	if len(picked) != len(correct) {
		return false
	}
	for id := range picked {
		if !correct[id] {
			return false
		}
	}
	return true
}
