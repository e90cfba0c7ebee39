package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"academykit-backend/internal/models"
)

type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

func (s *CourseService) CreateCourse(trainerID uint, title, description string) (*models.Course, error) {
	slug, err := GenerateSlug(title, SlugTaken(s.db, &models.Course{}))
	if err != nil {
		return nil, err
	}
	course := models.Course{
		TrainerID:   trainerID,
		Title:       title,
		Slug:        slug,
		Description: description,
		Status:      models.CourseStatusDraft,
	}
	if err := s.db.Create(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// GetCourse resolves ref as a numeric id or a slug.
func (s *CourseService) GetCourse(ref string) (*models.Course, error) {
	var course models.Course
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		if err := s.db.Preload("Tags").First(&course, uint(id)).Error; err == nil {
			return &course, nil
		}
	}
	if err := s.db.Preload("Tags").Where("slug = ?", ref).First(&course).Error; err != nil {
		return nil, fmt.Errorf("%w: course %q", ErrNotFound, ref)
	}
	return &course, nil
}

func (s *CourseService) ListCourses(trainerID uint) ([]models.Course, error) {
	var courses []models.Course
	err := s.db.Where("trainer_id = ?", trainerID).
		Preload("Tags").
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (s *CourseService) UpdateCourse(courseID, trainerID uint, title, description, status string) (*models.Course, error) {
	var course models.Course
	if err := s.db.Where("id = ? AND trainer_id = ?", courseID, trainerID).First(&course).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}

	course.Title = title
	course.Description = description
	switch status {
	case models.CourseStatusDraft, models.CourseStatusPublished, models.CourseStatusArchived:
		course.Status = status
	case "":
	default:
		return nil, fmt.Errorf("%w: unknown course status %q", ErrValidation, status)
	}
	if err := s.db.Save(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) DeleteCourse(courseID, trainerID uint) error {
	result := s.db.Where("id = ? AND trainer_id = ?", courseID, trainerID).Delete(&models.Course{})
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}
	return result.Error
}

// TagCourse attaches a tag by name, creating the tag (with a fresh slug) the
// first time the name appears.
func (s *CourseService) TagCourse(courseID, trainerID uint, name string) (*models.Tag, error) {
	var course models.Course
	if err := s.db.Where("id = ? AND trainer_id = ?", courseID, trainerID).First(&course).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
	}

	var tag models.Tag
	if err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		slug, serr := GenerateSlug(name, SlugTaken(s.db, &models.Tag{}))
		if serr != nil {
			return nil, serr
		}
		tag = models.Tag{Name: name, Slug: slug}
		if err := s.db.Create(&tag).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&course).Association("Tags").Append(&tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *CourseService) CreateGroup(trainerID uint, name string) (*models.Group, error) {
	slug, err := GenerateSlug(name, SlugTaken(s.db, &models.Group{}))
	if err != nil {
		return nil, err
	}
	group := models.Group{
		TrainerID: trainerID,
		Name:      name,
		Slug:      slug,
		Status:    models.GroupStatusActive,
	}
	if err := s.db.Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *CourseService) GetGroup(ref string) (*models.Group, error) {
	var group models.Group
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		if err := s.db.Preload("Members.User").First(&group, uint(id)).Error; err == nil {
			return &group, nil
		}
	}
	if err := s.db.Preload("Members.User").Where("slug = ?", ref).First(&group).Error; err != nil {
		return nil, fmt.Errorf("%w: group %q", ErrNotFound, ref)
	}
	return &group, nil
}

// JoinGroup adds a trainee; rejoining is a no-op returning the existing row.
func (s *CourseService) JoinGroup(groupID, userID uint) (*models.GroupMember, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		return nil, fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}
	if group.Status != models.GroupStatusActive {
		return nil, fmt.Errorf("%w: group is closed", ErrValidation)
	}

	var existing models.GroupMember
	if err := s.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&existing).Error; err == nil {
		return &existing, nil
	}

	member := models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *CourseService) CloseGroup(groupID, trainerID uint) error {
	var group models.Group
	if err := s.db.Where("id = ? AND trainer_id = ?", groupID, trainerID).First(&group).Error; err != nil {
		return fmt.Errorf("%w: group %d", ErrNotFound, groupID)
	}
	group.Status = models.GroupStatusClosed
	return s.db.Save(&group).Error
}

func (s *CourseService) ListGroupMembers(groupID uint) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := s.db.Where("group_id = ?", groupID).
		Preload("User").
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (s *CourseService) CreatePool(trainerID uint, name string) (*models.QuestionPool, error) {
	slug, err := GenerateSlug(name, SlugTaken(s.db, &models.QuestionPool{}))
	if err != nil {
		return nil, err
	}
	pool := models.QuestionPool{
		TrainerID: trainerID,
		Name:      name,
		Slug:      slug,
	}
	if err := s.db.Create(&pool).Error; err != nil {
		return nil, err
	}
	return &pool, nil
}

func (s *CourseService) GetPool(poolID, trainerID uint) (*models.QuestionPool, error) {
	var pool models.QuestionPool
	if err := s.db.Where("id = ? AND trainer_id = ?", poolID, trainerID).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		First(&pool).Error; err != nil {
		return nil, fmt.Errorf("%w: question pool %d", ErrNotFound, poolID)
	}
	return &pool, nil
}
