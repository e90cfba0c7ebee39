package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"academykit-backend/internal/models"
)

type QuestionSetService struct {
	db *gorm.DB
}

func NewQuestionSetService(db *gorm.DB) *QuestionSetService {
	return &QuestionSetService{db: db}
}

type QuestionSetInput struct {
	Title            string          `json:"title" binding:"required,min=3,max=255"`
	Description      string          `json:"description"`
	StartTime        *time.Time      `json:"start_time"`
	EndTime          *time.Time      `json:"end_time"`
	Duration         int             `json:"duration"`
	AllowedRetake    int             `json:"allowed_retake"`
	MarksPerQuestion decimal.Decimal `json:"marks_per_question"`
	NegativeMarking  decimal.Decimal `json:"negative_marking"`
	PassingWeightage decimal.Decimal `json:"passing_weightage"`
}

type OptionInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Type        string        `json:"type" binding:"required"`
	PoolID      *uint         `json:"pool_id"`
	Options     []OptionInput `json:"options"`
}

func (s *QuestionSetService) CreateQuestionSet(courseID, trainerID uint, in QuestionSetInput) (*models.QuestionSet, error) {
	var course models.Course
	if err := s.db.Where("id = ? AND trainer_id = ?", courseID, trainerID).First(&course).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}
	if err := validateQuestionSetInput(in); err != nil {
		return nil, err
	}

	slug, err := GenerateSlug(in.Title, SlugTaken(s.db, &models.QuestionSet{}))
	if err != nil {
		return nil, err
	}

	set := models.QuestionSet{
		CourseID:         courseID,
		Title:            in.Title,
		Slug:             slug,
		Description:      in.Description,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		Duration:         in.Duration,
		AllowedRetake:    in.AllowedRetake,
		MarksPerQuestion: in.MarksPerQuestion,
		NegativeMarking:  in.NegativeMarking,
		PassingWeightage: in.PassingWeightage,
	}
	if err := s.db.Create(&set).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

// UpdateQuestionSet applies authoring changes. A set with any attempt against
// it is frozen; corrections then go through an administrative flow instead.
func (s *QuestionSetService) UpdateQuestionSet(setID, trainerID uint, in QuestionSetInput) (*models.QuestionSet, error) {
	set, err := s.ownedQuestionSet(setID, trainerID)
	if err != nil {
		return nil, err
	}
	if err := validateQuestionSetInput(in); err != nil {
		return nil, err
	}

	var attempts int64
	s.db.Model(&models.QuestionSetSubmission{}).Where("question_set_id = ?", set.ID).Count(&attempts)
	if attempts > 0 {
		return nil, fmt.Errorf("%w: question set already has attempts", ErrValidation)
	}

	set.Title = in.Title
	set.Description = in.Description
	set.StartTime = in.StartTime
	set.EndTime = in.EndTime
	set.Duration = in.Duration
	set.AllowedRetake = in.AllowedRetake
	set.MarksPerQuestion = in.MarksPerQuestion
	set.NegativeMarking = in.NegativeMarking
	set.PassingWeightage = in.PassingWeightage
	if err := s.db.Save(set).Error; err != nil {
		return nil, err
	}
	if err := s.recomputeTotalMarks(set.ID); err != nil {
		return nil, err
	}
	return s.ownedQuestionSet(setID, trainerID)
}

// GetQuestionSet resolves ref as a numeric id or a slug. Question sets are
// fetched by either key throughout the API.
func (s *QuestionSetService) GetQuestionSet(ref string) (*models.QuestionSet, error) {
	load := func() *gorm.DB {
		return s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).Preload("Questions.Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		})
	}

	var set models.QuestionSet
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		if err := load().First(&set, uint(id)).Error; err == nil {
			return &set, nil
		}
	}
	if err := load().Where("slug = ?", ref).First(&set).Error; err != nil {
		return nil, fmt.Errorf("%w: question set %q", ErrNotFound, ref)
	}
	return &set, nil
}

func (s *QuestionSetService) ListByCourse(courseID, trainerID uint) ([]models.QuestionSet, error) {
	var course models.Course
	if err := s.db.Where("id = ? AND trainer_id = ?", courseID, trainerID).First(&course).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}
	var sets []models.QuestionSet
	err := s.db.Where("course_id = ?", courseID).Order("created_at DESC").Find(&sets).Error
	return sets, err
}

func (s *QuestionSetService) AddQuestion(setID, trainerID uint, in QuestionInput) (*models.Question, error) {
	set, err := s.ownedQuestionSet(setID, trainerID)
	if err != nil {
		return nil, err
	}
	if err := validateQuestionInput(in); err != nil {
		return nil, err
	}

	question := models.Question{
		PoolID:      in.PoolID,
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
	}
	for i, o := range in.Options {
		question.Options = append(question.Options, models.QuestionOption{
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
			OrderNum:  i,
		})
	}

	var maxOrder int
	s.db.Model(&models.QuestionSetQuestion{}).Where("question_set_id = ?", set.ID).
		Select("COALESCE(MAX(order_num), -1)").Scan(&maxOrder)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		join := models.QuestionSetQuestion{
			QuestionSetID: set.ID,
			QuestionID:    question.ID,
			OrderNum:      maxOrder + 1,
		}
		return tx.Create(&join).Error
	})
	if err != nil {
		return nil, err
	}
	if err := s.recomputeTotalMarks(set.ID); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuestionSetService) UpdateQuestion(questionID, trainerID uint, in QuestionInput) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return nil, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}
	if err := s.questionOwned(questionID, trainerID); err != nil {
		return nil, err
	}
	if err := validateQuestionInput(in); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		question.Name = in.Name
		question.Description = in.Description
		question.Type = in.Type
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.QuestionOption{}).Error; err != nil {
			return err
		}
		for i, o := range in.Options {
			opt := models.QuestionOption{
				QuestionID: question.ID,
				Text:       o.Text,
				IsCorrect:  o.IsCorrect,
				OrderNum:   i,
			}
			if err := tx.Create(&opt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&question, question.ID)
	return &question, nil
}

func (s *QuestionSetService) RemoveQuestion(setID, questionID, trainerID uint) error {
	set, err := s.ownedQuestionSet(setID, trainerID)
	if err != nil {
		return err
	}

	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("question_set_id = ? AND question_id = ?", set.ID, questionID).
			Delete(&models.QuestionSetQuestion{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: question %d not in set", ErrNotFound, questionID)
		}
		// Pool questions stay reusable; ad-hoc questions go with the set.
		if question.PoolID == nil {
			if err := tx.Where("question_id = ?", questionID).Delete(&models.QuestionOption{}).Error; err != nil {
				return err
			}
			return tx.Delete(&question).Error
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.recomputeTotalMarks(set.ID)
}

func (s *QuestionSetService) ownedQuestionSet(setID, trainerID uint) (*models.QuestionSet, error) {
	var set models.QuestionSet
	if err := s.db.Joins("JOIN courses ON courses.id = question_sets.course_id").
		Where("question_sets.id = ? AND courses.trainer_id = ?", setID, trainerID).
		First(&set).Error; err != nil {
		return nil, fmt.Errorf("%w: question set %d", ErrNotFound, setID)
	}
	return &set, nil
}

func (s *QuestionSetService) questionOwned(questionID, trainerID uint) error {
	var count int64
	s.db.Model(&models.QuestionSetQuestion{}).
		Joins("JOIN question_sets ON question_sets.id = question_set_questions.question_set_id").
		Joins("JOIN courses ON courses.id = question_sets.course_id").
		Where("question_set_questions.question_id = ? AND courses.trainer_id = ?", questionID, trainerID).
		Count(&count)
	if count == 0 {
		return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}
	return nil
}

// recomputeTotalMarks keeps total_marks = marks_per_question * scorable
// question count. Subjective questions are excluded: they carry no automated
// marks until a reviewer grades them.
func (s *QuestionSetService) recomputeTotalMarks(setID uint) error {
	var set models.QuestionSet
	if err := s.db.First(&set, setID).Error; err != nil {
		return err
	}
	var scorable int64
	if err := s.db.Model(&models.QuestionSetQuestion{}).
		Joins("JOIN questions ON questions.id = question_set_questions.question_id").
		Where("question_set_questions.question_set_id = ? AND questions.type IN ?",
			setID, []string{models.QuestionTypeSingleChoice, models.QuestionTypeMultipleChoice}).
		Count(&scorable).Error; err != nil {
		return err
	}
	total := set.MarksPerQuestion.Mul(decimal.NewFromInt(scorable))
	return s.db.Model(&set).Update("total_marks", total).Error
}

func validateQuestionSetInput(in QuestionSetInput) error {
	if in.StartTime != nil && in.EndTime != nil && !in.EndTime.After(*in.StartTime) {
		return fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}
	if in.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrValidation)
	}
	if in.AllowedRetake < 0 {
		return fmt.Errorf("%w: allowed_retake must not be negative", ErrValidation)
	}
	if in.MarksPerQuestion.IsNegative() {
		return fmt.Errorf("%w: marks_per_question must not be negative", ErrValidation)
	}
	if in.NegativeMarking.IsNegative() {
		return fmt.Errorf("%w: negative_marking must not be negative", ErrValidation)
	}
	if in.PassingWeightage.IsNegative() || in.PassingWeightage.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: passing_weightage must be between 0 and 100", ErrValidation)
	}
	return nil
}

func validateQuestionInput(in QuestionInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: question name is required", ErrValidation)
	}
	correct := 0
	for _, o := range in.Options {
		if o.IsCorrect {
			correct++
		}
	}
	switch in.Type {
	case models.QuestionTypeSingleChoice:
		if len(in.Options) < 2 {
			return fmt.Errorf("%w: single choice needs at least two options", ErrValidation)
		}
		if correct != 1 {
			return fmt.Errorf("%w: single choice needs exactly one correct option", ErrValidation)
		}
	case models.QuestionTypeMultipleChoice:
		if len(in.Options) < 2 {
			return fmt.Errorf("%w: multiple choice needs at least two options", ErrValidation)
		}
		if correct < 1 {
			return fmt.Errorf("%w: multiple choice needs at least one correct option", ErrValidation)
		}
	case models.QuestionTypeSubjective:
		if len(in.Options) > 0 {
			return fmt.Errorf("%w: subjective questions take no options", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrValidation, in.Type)
	}
	return nil
}
