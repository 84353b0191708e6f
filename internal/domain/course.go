package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

// Access tier: what a viewer must do before seeing course content.
type AccessRequirement string

const (
	AccessAnyone        AccessRequirement = "any"
	AccessEmailRequired AccessRequirement = "email_required"
)

// Publish lifecycle of a course or lesson.
type PublishStatus string

const (
	StatusPublished  PublishStatus = "publish"
	StatusComingSoon PublishStatus = "soon"
	StatusDraft      PublishStatus = "draft"
)

// Locatable is implemented by entities addressable by a public URL path.
type Locatable interface {
	Path() string
}

// Displayable is implemented by entities with a human-readable upload name.
type Displayable interface {
	DisplayName() string
}

type Course struct {
	// IDs come from BeforeCreate; a DB-side default would tie the
	// schema to postgres.
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"index"`
	Description string
	Image       string // object key in media storage, empty if none

	PublicID string            `gorm:"uniqueIndex;size:130"`
	Access   AccessRequirement `gorm:"size:20;default:'email_required'"`
	Status   PublishStatus     `gorm:"size:10;index;default:'draft'"`

	Lessons []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	// Assigned once; later title changes never touch it.
	if c.PublicID == "" {
		c.PublicID = NewPublicID(c.Title)
	}
	return nil
}

func (c *Course) IsPublished() bool {
	return c.Status == StatusPublished
}

func (c *Course) IsComingSoon() bool {
	return c.Status == StatusComingSoon
}

func (c *Course) Path() string {
	return "/courses/" + c.PublicID
}

func (c *Course) DisplayName() string {
	return c.Title
}

type Lesson struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID uuid.UUID `gorm:"type:uuid;index;not null"`
	Course   *Course   `gorm:"foreignKey:CourseID"`

	Title       string
	Description string
	Thumbnail   string // object keys in media storage
	Video       string

	PublicID   string        `gorm:"uniqueIndex;size:130"`
	Order      int           `gorm:"default:0"`
	CanPreview bool          `gorm:"default:false"` // visible without course access
	Status     PublishStatus `gorm:"size:10;default:'publish'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.PublicID == "" {
		l.PublicID = NewPublicID(l.Title)
	}
	return nil
}

func (l *Lesson) IsPublished() bool {
	return l.Status == StatusPublished
}

func (l *Lesson) IsComingSoon() bool {
	return l.Status == StatusComingSoon
}

// Path requires the owning course to be loaded.
func (l *Lesson) Path() string {
	base := ""
	if l.Course != nil {
		base = strings.TrimSuffix(l.Course.Path(), "/")
	}
	return base + "/lessons/" + l.PublicID
}

func (l *Lesson) DisplayName() string {
	if l.Title == "" {
		return ""
	}
	if l.Course != nil {
		return l.Title + " - " + l.Course.Title
	}
	return l.Title
}

// LessonOrderClause is the default lesson ordering within a course.
const LessonOrderClause = "\"order\" asc, updated_at desc"
