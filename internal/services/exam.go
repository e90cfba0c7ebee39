package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"academykit-backend/internal/models"
)

// submitGrace absorbs network latency between the client countdown firing and
// the submit request arriving. The server-side check stays authoritative.
const submitGrace = 10 * time.Second

type ExamService struct {
	db      *gorm.DB
	scoring *ScoringService
	now     func() time.Time
}

func NewExamService(db *gorm.DB, scoring *ScoringService) *ExamService {
	return &ExamService{db: db, scoring: scoring, now: time.Now}
}

type ExamOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// ExamQuestion is the question shape handed to an examinee. It deliberately
// has no is_correct field anywhere.
type ExamQuestion struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Type        string       `json:"type"`
	Options     []ExamOption `json:"options"`
}

type AttemptState struct {
	SubmissionID      uint           `json:"submission_id"`
	AttemptCount      int            `json:"attempt_count"`
	RemainingAttempts int            `json:"remaining_attempts"`
	Resumed           bool           `json:"resumed"`
	StartedAt         time.Time      `json:"started_at"`
	Duration          int            `json:"duration"`
	Questions         []ExamQuestion `json:"questions"`
}

type SubmitResult struct {
	SubmissionID  uint `json:"submission_id"`
	QuestionSetID uint `json:"question_set_id"`
	AttemptCount  int  `json:"attempt_count"`
	ScoredResult
	Certificate *models.Certificate `json:"certificate,omitempty"`
}

// StartAttempt begins or resumes an attempt for the user.
//
// A user gets allowed_retake+1 completed attempts; starting past that fails
// with ErrAttemptExceeded. New attempts may only begin inside the
// [start_time, end_time] window (a nil bound is open on that side), otherwise
// ErrWindowClosed. An existing in-flight submission is resumed instead of
// creating a second row, so double-clicks and page reloads are idempotent;
// the partial unique index settles races between concurrent starts.
func (s *ExamService) StartAttempt(questionSetID, userID uint) (*AttemptState, error) {
	set, err := s.questionSet(questionSetID)
	if err != nil {
		return nil, err
	}

	var prior []models.QuestionSetSubmission
	if err := s.db.Where("question_set_id = ? AND user_id = ?", set.ID, userID).
		Order("started_at ASC").
		Find(&prior).Error; err != nil {
		return nil, err
	}

	completed := 0
	var inFlight *models.QuestionSetSubmission
	for i := range prior {
		if prior[i].SubmittedAt != nil {
			completed++
		} else {
			inFlight = &prior[i]
		}
	}

	if completed >= set.AllowedRetake+1 {
		return nil, fmt.Errorf("%w: %d of %d attempts used", ErrAttemptExceeded, completed, set.AllowedRetake+1)
	}

	now := s.now().UTC()
	if set.StartTime != nil && now.Before(*set.StartTime) {
		return nil, fmt.Errorf("%w: opens at %s", ErrWindowClosed, set.StartTime.Format(time.RFC3339))
	}
	if set.EndTime != nil && now.After(*set.EndTime) {
		return nil, fmt.Errorf("%w: closed at %s", ErrWindowClosed, set.EndTime.Format(time.RFC3339))
	}

	resumed := inFlight != nil
	if inFlight == nil {
		sub := models.QuestionSetSubmission{
			QuestionSetID: set.ID,
			UserID:        userID,
			AttemptCount:  completed + 1,
			StartedAt:     now,
			TotalMarks:    set.TotalMarks,
		}
		if err := s.db.Create(&sub).Error; err != nil {
			// A concurrent start won the unique-index race; adopt its row.
			var existing models.QuestionSetSubmission
			if ferr := s.db.Where("question_set_id = ? AND user_id = ? AND submitted_at IS NULL", set.ID, userID).
				First(&existing).Error; ferr != nil {
				return nil, err
			}
			inFlight = &existing
			resumed = true
		} else {
			inFlight = &sub
		}
	}

	questions, err := s.orderedQuestions(set.ID)
	if err != nil {
		return nil, err
	}

	state := &AttemptState{
		SubmissionID:      inFlight.ID,
		AttemptCount:      inFlight.AttemptCount,
		RemainingAttempts: set.AllowedRetake + 1 - completed - 1,
		Resumed:           resumed,
		StartedAt:         inFlight.StartedAt,
		Duration:          set.Duration,
		Questions:         make([]ExamQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		eq := ExamQuestion{
			ID:          q.ID,
			Name:        q.Name,
			Description: q.Description,
			Type:        q.Type,
			Options:     make([]ExamOption, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			eq.Options = append(eq.Options, ExamOption{ID: o.ID, Text: o.Text})
		}
		state.Questions = append(state.Questions, eq)
	}
	return state, nil
}

// Submit scores an in-flight attempt and closes it.
//
// The submission must still be open (ErrAlreadySubmitted otherwise) and,
// for timed sets, must arrive within duration+grace of started_at
// (ErrAttemptExpired otherwise; nothing is scored or recorded then, the
// client countdown is advisory only). An attempt that began inside the window
// may be submitted after the window closes as long as it is within the
// grace. The closing update is guarded on submitted_at IS NULL so exactly one
// of two concurrent submits wins.
func (s *ExamService) Submit(submissionID, userID uint, answers []Answer) (*SubmitResult, error) {
	var sub models.QuestionSetSubmission
	if err := s.db.Where("id = ? AND user_id = ?", submissionID, userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: submission %d", ErrNotFound, submissionID)
		}
		return nil, err
	}
	if sub.SubmittedAt != nil {
		return nil, ErrAlreadySubmitted
	}

	set, err := s.questionSet(sub.QuestionSetID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if set.Duration > 0 {
		deadline := sub.StartedAt.Add(time.Duration(set.Duration)*time.Second + submitGrace)
		if now.After(deadline) {
			return nil, fmt.Errorf("%w: deadline was %s", ErrAttemptExpired, deadline.Format(time.RFC3339))
		}
	}

	questions, err := s.orderedQuestions(set.ID)
	if err != nil {
		return nil, err
	}
	scored := s.scoring.Score(set, questions, answers)

	res := s.db.Model(&models.QuestionSetSubmission{}).
		Where("id = ? AND submitted_at IS NULL", sub.ID).
		Updates(map[string]interface{}{
			"submitted_at":   now,
			"duration_sec":   int(now.Sub(sub.StartedAt).Seconds()),
			"obtained_marks": scored.ObtainedMarks,
			"negative_marks": scored.NegativeMarks,
			"total_marks":    scored.TotalMarks,
			"has_passed":     scored.HasPassed,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// A concurrent submit got here first.
		return nil, ErrAlreadySubmitted
	}

	result := &SubmitResult{
		SubmissionID:  sub.ID,
		QuestionSetID: set.ID,
		AttemptCount:  sub.AttemptCount,
		ScoredResult:  scored,
	}
	if scored.HasPassed {
		if cert, cerr := s.issueCertificate(userID, set.ID, scored.Percentage); cerr == nil {
			result.Certificate = cert
		}
	}
	return result, nil
}

// Results returns the user's completed submissions for a question set, newest
// first.
func (s *ExamService) Results(questionSetID, userID uint) ([]models.QuestionSetSubmission, error) {
	var subs []models.QuestionSetSubmission
	err := s.db.Where("question_set_id = ? AND user_id = ? AND submitted_at IS NOT NULL", questionSetID, userID).
		Order("started_at DESC").
		Find(&subs).Error
	return subs, err
}

// RemainingAttempts reports how many more attempts the user may start.
func (s *ExamService) RemainingAttempts(questionSetID, userID uint) (int, error) {
	set, err := s.questionSet(questionSetID)
	if err != nil {
		return 0, err
	}
	var completed int64
	if err := s.db.Model(&models.QuestionSetSubmission{}).
		Where("question_set_id = ? AND user_id = ? AND submitted_at IS NOT NULL", questionSetID, userID).
		Count(&completed).Error; err != nil {
		return 0, err
	}
	remaining := set.AllowedRetake + 1 - int(completed)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (s *ExamService) questionSet(id uint) (*models.QuestionSet, error) {
	var set models.QuestionSet
	if err := s.db.First(&set, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question set %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &set, nil
}

func (s *ExamService) orderedQuestions(setID uint) ([]models.Question, error) {
	var joins []models.QuestionSetQuestion
	err := s.db.Where("question_set_id = ?", setID).
		Order("order_num ASC").
		Preload("Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Find(&joins).Error
	if err != nil {
		return nil, err
	}
	questions := make([]models.Question, 0, len(joins))
	for _, j := range joins {
		questions = append(questions, j.Question)
	}
	return questions, nil
}

func (s *ExamService) issueCertificate(userID, questionSetID uint, percentage decimal.Decimal) (*models.Certificate, error) {
	var existing models.Certificate
	if err := s.db.Where("user_id = ? AND question_set_id = ?", userID, questionSetID).
		First(&existing).Error; err == nil {
		return &existing, nil
	}

	cert := models.Certificate{
		UserID:        userID,
		QuestionSetID: questionSetID,
		SerialNumber:  uuid.NewString(),
		Percentage:    percentage,
		IssuedAt:      s.now().UTC(),
	}
	if err := s.db.Create(&cert).Error; err != nil {
		// Concurrent pass already issued one.
		if ferr := s.db.Where("user_id = ? AND question_set_id = ?", userID, questionSetID).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &cert, nil
}
