package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"academykit-backend/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func scoringSet(marksPerQuestion, negativeMarking, passingWeightage, totalMarks string) *models.QuestionSet {
	return &models.QuestionSet{
		MarksPerQuestion: dec(marksPerQuestion),
		NegativeMarking:  dec(negativeMarking),
		PassingWeightage: dec(passingWeightage),
		TotalMarks:       dec(totalMarks),
	}
}

func singleChoice(id, correctID uint, otherIDs ...uint) models.Question {
	q := models.Question{
		ID:   id,
		Type: models.QuestionTypeSingleChoice,
		Options: []models.QuestionOption{
			{ID: correctID, QuestionID: id, IsCorrect: true},
		},
	}
	for _, oid := range otherIDs {
		q.Options = append(q.Options, models.QuestionOption{ID: oid, QuestionID: id})
	}
	return q
}

func multipleChoice(id uint, correctIDs, otherIDs []uint) models.Question {
	q := models.Question{ID: id, Type: models.QuestionTypeMultipleChoice}
	for _, oid := range correctIDs {
		q.Options = append(q.Options, models.QuestionOption{ID: oid, QuestionID: id, IsCorrect: true})
	}
	for _, oid := range otherIDs {
		q.Options = append(q.Options, models.QuestionOption{ID: oid, QuestionID: id})
	}
	return q
}

func TestScoreSingleChoice(t *testing.T) {
	svc := NewScoringService()
	set := scoringSet("4", "0", "50", "8")
	questions := []models.Question{
		singleChoice(1, 11, 12, 13),
		singleChoice(2, 21, 22, 23),
	}

	t.Run("all correct passes", func(t *testing.T) {
		res := svc.Score(set, questions, []Answer{
			{QuestionID: 1, OptionIDs: []uint{11}},
			{QuestionID: 2, OptionIDs: []uint{21}},
		})
		assert.True(t, res.ObtainedMarks.Equal(dec("8")))
		assert.True(t, res.NegativeMarks.IsZero())
		assert.True(t, res.Percentage.Equal(dec("100")))
		assert.True(t, res.HasPassed)
	})

	t.Run("exactly the threshold passes", func(t *testing.T) {
		res := svc.Score(set, questions, []Answer{
			{QuestionID: 1, OptionIDs: []uint{11}},
			{QuestionID: 2, OptionIDs: []uint{22}},
		})
		assert.True(t, res.ObtainedMarks.Equal(dec("4")))
		assert.True(t, res.Percentage.Equal(dec("50")))
		assert.True(t, res.HasPassed)
	})

	t.Run("all wrong fails", func(t *testing.T) {
		res := svc.Score(set, questions, []Answer{
			{QuestionID: 1, OptionIDs: []uint{12}},
			{QuestionID: 2, OptionIDs: []uint{23}},
		})
		assert.True(t, res.ObtainedMarks.IsZero())
		assert.True(t, res.Percentage.IsZero())
		assert.False(t, res.HasPassed)
	})
}

func TestScoreMultipleChoiceExactSet(t *testing.T) {
	svc := NewScoringService()
	set := scoringSet("4", "0", "50", "4")
	questions := []models.Question{
		multipleChoice(1, []uint{11, 12}, []uint{13, 14}),
	}

	cases := []struct {
		name     string
		selected []uint
		correct  bool
	}{
		{"exact match in authored order", []uint{11, 12}, true},
		{"exact match reordered", []uint{12, 11}, true},
		{"strict subset earns nothing", []uint{11}, false},
		{"superset earns nothing", []uint{11, 12, 13}, false},
		{"disjoint selection", []uint{13, 14}, false},
		{"foreign option id breaks the match", []uint{11, 99}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := svc.Score(set, questions, []Answer{{QuestionID: 1, OptionIDs: c.selected}})
			if c.correct {
				assert.True(t, res.ObtainedMarks.Equal(dec("4")))
			} else {
				assert.True(t, res.ObtainedMarks.IsZero())
			}
		})
	}
}

func TestScoreNegativeMarking(t *testing.T) {
	svc := NewScoringService()
	set := scoringSet("4", "0.25", "50", "8")
	questions := []models.Question{
		singleChoice(1, 11, 12),
		singleChoice(2, 21, 22),
	}

	t.Run("wrong answer deducts a fraction of the question marks", func(t *testing.T) {
		res := svc.Score(set, questions, []Answer{
			{QuestionID: 1, OptionIDs: []uint{11}},
			{QuestionID: 2, OptionIDs: []uint{22}},
		})
		assert.True(t, res.ObtainedMarks.Equal(dec("4")))
		assert.True(t, res.NegativeMarks.Equal(dec("1")))
		// (4 - 1) / 8 * 100
		assert.True(t, res.Percentage.Equal(dec("37.5")))
		assert.False(t, res.HasPassed)
	})

	t.Run("skipped question is never penalised", func(t *testing.T) {
		res := svc.Score(set, questions, []Answer{
			{QuestionID: 1, OptionIDs: []uint{11}},
		})
		assert.True(t, res.ObtainedMarks.Equal(dec("4")))
		assert.True(t, res.NegativeMarks.IsZero())
	})

	t.Run("empty selection counts as skipped", func(t *testing.T) {
		res := svc.Score(set, questions, []Answer{
			{QuestionID: 1, OptionIDs: nil},
			{QuestionID: 2, OptionIDs: []uint{}},
		})
		assert.True(t, res.ObtainedMarks.IsZero())
		assert.True(t, res.NegativeMarks.IsZero())
	})

	t.Run("net score is floored at zero", func(t *testing.T) {
		res := svc.Score(set, questions, []Answer{
			{QuestionID: 1, OptionIDs: []uint{12}},
			{QuestionID: 2, OptionIDs: []uint{22}},
		})
		assert.True(t, res.ObtainedMarks.IsZero())
		assert.True(t, res.NegativeMarks.Equal(dec("2")))
		assert.True(t, res.Percentage.IsZero())
		assert.False(t, res.HasPassed)
	})
}

func TestScoreSubjectiveExcluded(t *testing.T) {
	svc := NewScoringService()
	set := scoringSet("4", "0.5", "50", "4")
	questions := []models.Question{
		singleChoice(1, 11, 12),
		{ID: 2, Type: models.QuestionTypeSubjective},
	}

	res := svc.Score(set, questions, []Answer{
		{QuestionID: 1, OptionIDs: []uint{11}},
		{QuestionID: 2, OptionIDs: []uint{77}},
	})
	assert.True(t, res.ObtainedMarks.Equal(dec("4")))
	assert.True(t, res.NegativeMarks.IsZero(), "a subjective answer never deducts")
	assert.True(t, res.HasPassed)
}

func TestScoreNoPassThresholdConfigured(t *testing.T) {
	svc := NewScoringService()
	questions := []models.Question{singleChoice(1, 11, 12)}
	answers := []Answer{{QuestionID: 1, OptionIDs: []uint{11}}}

	t.Run("zero total marks", func(t *testing.T) {
		res := svc.Score(scoringSet("4", "0", "50", "0"), questions, answers)
		assert.True(t, res.Percentage.IsZero())
		assert.False(t, res.HasPassed)
	})

	t.Run("zero passing weightage", func(t *testing.T) {
		res := svc.Score(scoringSet("4", "0", "0", "4"), questions, answers)
		assert.True(t, res.Percentage.Equal(dec("100")))
		assert.False(t, res.HasPassed)
	})
}

func TestScoreFractionalMarks(t *testing.T) {
	svc := NewScoringService()
	set := scoringSet("2.5", "0.1", "50", "7.5")
	questions := []models.Question{
		singleChoice(1, 11, 12),
		singleChoice(2, 21, 22),
		singleChoice(3, 31, 32),
	}

	res := svc.Score(set, questions, []Answer{
		{QuestionID: 1, OptionIDs: []uint{11}},
		{QuestionID: 2, OptionIDs: []uint{21}},
		{QuestionID: 3, OptionIDs: []uint{32}},
	})
	assert.True(t, res.ObtainedMarks.Equal(dec("5")))
	assert.True(t, res.NegativeMarks.Equal(dec("0.25")))
	// (5 - 0.25) / 7.5 * 100 = 63.33...; the decimal division keeps enough
	// precision that the comparison against the threshold stays exact.
	assert.True(t, res.Percentage.GreaterThan(dec("63.3")))
	assert.True(t, res.Percentage.LessThan(dec("63.4")))
	assert.True(t, res.HasPassed)
}
