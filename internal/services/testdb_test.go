package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"academykit-backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Tag{},
		&models.Group{},
		&models.GroupMember{},
		&models.QuestionPool{},
		&models.Question{},
		&models.QuestionOption{},
		&models.QuestionSet{},
		&models.QuestionSetQuestion{},
		&models.QuestionSetSubmission{},
		&models.Certificate{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestCourse(t *testing.T, db *gorm.DB, trainerID uint, title string) *models.Course {
	t.Helper()
	course, err := NewCourseService(db).CreateCourse(trainerID, title, "")
	require.NoError(t, err)
	return course
}

// addSingleChoiceQuestions appends n single-choice questions to the set, each
// with one correct and one wrong option, and returns them with options loaded.
func addSingleChoiceQuestions(t *testing.T, sets *QuestionSetService, setID, trainerID uint, n int) []models.Question {
	t.Helper()
	questions := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		q, err := sets.AddQuestion(setID, trainerID, QuestionInput{
			Name: fmt.Sprintf("Question %d", i+1),
			Type: models.QuestionTypeSingleChoice,
			Options: []OptionInput{
				{Text: "right answer", IsCorrect: true},
				{Text: "wrong answer"},
			},
		})
		require.NoError(t, err)
		questions = append(questions, *q)
	}
	return questions
}

// correctOptionIDs returns the ids of the question's options authored as
// correct.
func correctOptionIDs(q models.Question) []uint {
	var ids []uint
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

func wrongOptionIDs(q models.Question) []uint {
	var ids []uint
	for _, o := range q.Options {
		if !o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}
