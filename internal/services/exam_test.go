package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit-backend/internal/models"
)

type examFixture struct {
	svc       *ExamService
	sets      *QuestionSetService
	trainer   *models.User
	trainee   *models.User
	set       *models.QuestionSet
	questions []models.Question
	now       time.Time
}

// newExamFixture builds a trainer-owned course with a two-question set and an
// exam service whose clock is frozen at fixture.now (advance it by reassigning
// fixture.now between calls).
func newExamFixture(t *testing.T, in QuestionSetInput) *examFixture {
	t.Helper()
	db := openTestDB(t)
	f := &examFixture{
		trainer: createTestUser(t, db, "trainer@example.com", models.RoleTrainer),
		trainee: createTestUser(t, db, "trainee@example.com", models.RoleTrainee),
		sets:    NewQuestionSetService(db),
		now:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	course := createTestCourse(t, db, f.trainer.ID, "Go Fundamentals")

	set, err := f.sets.CreateQuestionSet(course.ID, f.trainer.ID, in)
	require.NoError(t, err)
	f.questions = addSingleChoiceQuestions(t, f.sets, set.ID, f.trainer.ID, 2)

	f.set, err = f.sets.GetQuestionSet(set.Slug)
	require.NoError(t, err)

	f.svc = NewExamService(db, NewScoringService())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *examFixture) answers(correct int) []Answer {
	answers := make([]Answer, 0, len(f.questions))
	for i, q := range f.questions {
		if i < correct {
			answers = append(answers, Answer{QuestionID: q.ID, OptionIDs: correctOptionIDs(q)})
		} else {
			answers = append(answers, Answer{QuestionID: q.ID, OptionIDs: wrongOptionIDs(q)})
		}
	}
	return answers
}

func defaultSetInput() QuestionSetInput {
	return QuestionSetInput{
		Title:            "Final Exam",
		Duration:         600,
		AllowedRetake:    1,
		MarksPerQuestion: dec("4"),
		PassingWeightage: dec("50"),
	}
}

func TestStartAttempt(t *testing.T) {
	f := newExamFixture(t, defaultSetInput())

	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	assert.NotZero(t, state.SubmissionID)
	assert.Equal(t, 1, state.AttemptCount)
	assert.Equal(t, 1, state.RemainingAttempts)
	assert.False(t, state.Resumed)
	assert.Equal(t, f.now, state.StartedAt)
	assert.Equal(t, 600, state.Duration)

	require.Len(t, state.Questions, 2)
	for _, q := range state.Questions {
		assert.Len(t, q.Options, 2)
	}
}

func TestStartAttemptResumesInFlight(t *testing.T) {
	f := newExamFixture(t, defaultSetInput())

	first, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Minute)
	second, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	assert.Equal(t, first.SubmissionID, second.SubmissionID)
	assert.True(t, second.Resumed)
	assert.True(t, second.StartedAt.Equal(first.StartedAt), "resume keeps the original clock")
	assert.Equal(t, first.AttemptCount, second.AttemptCount)
}

func TestStartAttemptSeparateUsersSeparateSubmissions(t *testing.T) {
	f := newExamFixture(t, defaultSetInput())
	other := createTestUser(t, f.svc.db, "other@example.com", models.RoleTrainee)

	a, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)
	b, err := f.svc.StartAttempt(f.set.ID, other.ID)
	require.NoError(t, err)

	assert.NotEqual(t, a.SubmissionID, b.SubmissionID)
	assert.False(t, b.Resumed)
}

func TestStartAttemptExceeded(t *testing.T) {
	f := newExamFixture(t, defaultSetInput()) // allowed_retake 1 -> 2 attempts

	for i := 0; i < 2; i++ {
		state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
		require.NoError(t, err)
		_, err = f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(0))
		require.NoError(t, err)
	}

	_, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	assert.ErrorIs(t, err, ErrAttemptExceeded)

	remaining, err := f.svc.RemainingAttempts(f.set.ID, f.trainee.ID)
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestStartAttemptAbandonedAttemptDoesNotCountAsUsed(t *testing.T) {
	in := defaultSetInput()
	in.AllowedRetake = 0 // single attempt
	f := newExamFixture(t, in)

	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	// Starting again resumes the open attempt instead of burning the quota.
	again, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)
	assert.Equal(t, state.SubmissionID, again.SubmissionID)

	remaining, err := f.svc.RemainingAttempts(f.set.ID, f.trainee.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining, "only completed attempts consume the quota")
}

func TestStartAttemptWindow(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := base.Add(time.Hour)
	end := base.Add(2 * time.Hour)

	in := defaultSetInput()
	in.StartTime = &start
	in.EndTime = &end
	f := newExamFixture(t, in)

	f.now = base
	_, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	assert.ErrorIs(t, err, ErrWindowClosed)

	f.now = end.Add(time.Minute)
	_, err = f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	assert.ErrorIs(t, err, ErrWindowClosed)

	f.now = start.Add(time.Minute)
	_, err = f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	assert.NoError(t, err)
}

func TestSubmitScoresAndIssuesCertificate(t *testing.T) {
	f := newExamFixture(t, defaultSetInput())

	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	f.now = f.now.Add(5 * time.Minute)
	result, err := f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(2))
	require.NoError(t, err)

	assert.Equal(t, state.SubmissionID, result.SubmissionID)
	assert.Equal(t, f.set.ID, result.QuestionSetID)
	assert.True(t, result.ObtainedMarks.Equal(dec("8")))
	assert.True(t, result.TotalMarks.Equal(dec("8")))
	assert.True(t, result.HasPassed)

	require.NotNil(t, result.Certificate)
	assert.Len(t, result.Certificate.SerialNumber, 36)
	assert.True(t, result.Certificate.Percentage.Equal(dec("100")))

	var sub models.QuestionSetSubmission
	require.NoError(t, f.svc.db.First(&sub, state.SubmissionID).Error)
	require.NotNil(t, sub.SubmittedAt)
	assert.Equal(t, 300, sub.DurationSec)
	assert.True(t, sub.HasPassed)

	results, err := f.svc.Results(f.set.ID, f.trainee.ID)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSubmitFailedAttemptHasNoCertificate(t *testing.T) {
	f := newExamFixture(t, defaultSetInput())

	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	result, err := f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(0))
	require.NoError(t, err)
	assert.False(t, result.HasPassed)
	assert.Nil(t, result.Certificate)
}

func TestSubmitTwiceRejected(t *testing.T) {
	f := newExamFixture(t, defaultSetInput())

	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	_, err = f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(2))
	require.NoError(t, err)

	_, err = f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(2))
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitForeignSubmissionNotFound(t *testing.T) {
	f := newExamFixture(t, defaultSetInput())
	other := createTestUser(t, f.svc.db, "other@example.com", models.RoleTrainee)

	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	_, err = f.svc.Submit(state.SubmissionID, other.ID, f.answers(2))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitExpired(t *testing.T) {
	f := newExamFixture(t, defaultSetInput()) // 600s duration

	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	f.now = state.StartedAt.Add(600*time.Second + submitGrace + time.Second)
	_, err = f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(2))
	assert.ErrorIs(t, err, ErrAttemptExpired)

	// Nothing was scored or recorded.
	var sub models.QuestionSetSubmission
	require.NoError(t, f.svc.db.First(&sub, state.SubmissionID).Error)
	assert.Nil(t, sub.SubmittedAt)
	assert.True(t, sub.ObtainedMarks.IsZero())
}

func TestSubmitWithinGrace(t *testing.T) {
	f := newExamFixture(t, defaultSetInput())

	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	f.now = state.StartedAt.Add(600*time.Second + submitGrace - time.Second)
	_, err = f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(2))
	assert.NoError(t, err)
}

func TestSubmitUntimedSetNeverExpires(t *testing.T) {
	in := defaultSetInput()
	in.Duration = 0
	f := newExamFixture(t, in)

	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	f.now = f.now.Add(72 * time.Hour)
	_, err = f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(2))
	assert.NoError(t, err)
}

func TestSubmitAllowedAfterWindowCloses(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	end := base.Add(5 * time.Minute)

	in := defaultSetInput()
	in.EndTime = &end
	f := newExamFixture(t, in)

	f.now = base
	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)

	// The window closes mid-attempt; the duration check, not the window,
	// governs the submit.
	f.now = end.Add(2 * time.Minute)
	_, err = f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(2))
	assert.NoError(t, err)
}

func TestSecondAttemptAfterFailure(t *testing.T) {
	f := newExamFixture(t, defaultSetInput())

	state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)
	result, err := f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(0))
	require.NoError(t, err)
	require.False(t, result.HasPassed)

	retry, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
	require.NoError(t, err)
	assert.NotEqual(t, state.SubmissionID, retry.SubmissionID)
	assert.Equal(t, 2, retry.AttemptCount)
	assert.Zero(t, retry.RemainingAttempts)

	result, err = f.svc.Submit(retry.SubmissionID, f.trainee.ID, f.answers(2))
	require.NoError(t, err)
	assert.True(t, result.HasPassed)
	assert.NotNil(t, result.Certificate)

	results, err := f.svc.Results(f.set.ID, f.trainee.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].AttemptCount, "newest first")
}

func TestCertificateIssuedOncePerUserAndSet(t *testing.T) {
	in := defaultSetInput()
	in.AllowedRetake = 2
	f := newExamFixture(t, in)

	var serial string
	for i := 0; i < 2; i++ {
		state, err := f.svc.StartAttempt(f.set.ID, f.trainee.ID)
		require.NoError(t, err)
		result, err := f.svc.Submit(state.SubmissionID, f.trainee.ID, f.answers(2))
		require.NoError(t, err)
		require.NotNil(t, result.Certificate)
		if i == 0 {
			serial = result.Certificate.SerialNumber
		} else {
			assert.Equal(t, serial, result.Certificate.SerialNumber, "later passes keep the original")
		}
	}

	var count int64
	f.svc.db.Model(&models.Certificate{}).
		Where("user_id = ? AND question_set_id = ?", f.trainee.ID, f.set.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestStartAttemptUnknownSet(t *testing.T) {
	f := newExamFixture(t, defaultSetInput())
	_, err := f.svc.StartAttempt(9999, f.trainee.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
