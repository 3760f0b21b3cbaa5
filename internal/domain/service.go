// Package domain defines the business logic for the carbon tracker.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yashbhambure/spark-carbon-log/internal/observability"
)

var (
	// ErrActivityNotFound is returned when an activity cannot be located
	// for the requesting user.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrEmptyDescription rejects blank or whitespace-only descriptions
	// before they reach the classifier.
	ErrEmptyDescription = errors.New("description must not be empty")
	// ErrInvalidCategory rejects category overrides outside the known set.
	ErrInvalidCategory = errors.New("unknown category")
	// ErrNegativeEmission rejects emission overrides below zero.
	ErrNegativeEmission = errors.New("emission must be >= 0")
)

// Classification is the outcome of classifying a description. EmissionKg is
// always >= 0.
type Classification struct {
	Category   Category
	EmissionKg float64
}

// Classifier produces a category and emission estimate for a description.
type Classifier interface {
	Classify(description string) Classification
}

// ListFilter narrows an activity listing.
type ListFilter struct {
	Category Category // empty means all categories
	Search   string   // case-insensitive substring of the description
}

// Cursor models the pagination token for activity listings.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// ActivityRepository captures persistence operations used by the service.
// Implementations must guarantee read-after-write consistency: an insert
// followed by a date-range read sees the new row.
type ActivityRepository interface {
	Create(ctx context.Context, activity Activity) error
	Get(ctx context.Context, userID, activityID string) (*Activity, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter, cursor *Cursor, limit int) ([]Activity, *Cursor, error)
	ListByDateRange(ctx context.Context, userID string, from, to Date) ([]Activity, error)
	Update(ctx context.Context, activity Activity) error
	Delete(ctx context.Context, userID, activityID string) error
	HistoryByDateRange(ctx context.Context, userID string, from, to Date) ([]DailyHistory, error)
}

// Service orchestrates activity workflows.
type Service struct {
	repo       ActivityRepository
	classifier Classifier
	now        func() time.Time
}

// NewService constructs a Service.
func NewService(repo ActivityRepository, classifier Classifier) *Service {
	return &Service{repo: repo, classifier: classifier, now: time.Now}
}

// LogActivityInput captures the payload from the API layer. Category and
// EmissionKg are optional overrides; when absent the classifier decides.
type LogActivityInput struct {
	UserID       string
	Description  string
	ActivityDate Date // zero value means today (UTC)
	Category     Category
	EmissionKg   *float64
}

// LogActivity classifies the description (unless explicitly overridden),
// stamps the record, and persists it together with its outbox event.
func (s *Service) LogActivity(ctx context.Context, input LogActivityInput) (*Activity, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	if input.Category != "" && !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if input.EmissionKg != nil && *input.EmissionKg < 0 {
		return nil, ErrNegativeEmission
	}

	category := input.Category
	var emission float64
	if input.EmissionKg != nil {
		emission = *input.EmissionKg
	}
	// A fully overridden entry (user correction) never touches the
	// classifier, so corrections don't distort the fallback counter.
	if category == "" || input.EmissionKg == nil {
		classified := s.classifier.Classify(description)
		if category == "" {
			category = classified.Category
			if classified.Category == CategoryOther {
				observability.RecordClassifierFallback()
			}
		}
		if input.EmissionKg == nil {
			emission = classified.EmissionKg
		}
	}

	now := s.now().UTC()
	date := input.ActivityDate
	if date.IsZero() {
		date = DateOf(now)
	}

	activity := Activity{
		ID:           uuid.NewString(),
		UserID:       input.UserID,
		Description:  description,
		Category:     category,
		EmissionKg:   emission,
		ActivityDate: date,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetActivity fetches by ID, scoped to the owning user.
func (s *Service) GetActivity(ctx context.Context, userID, activityID string) (*Activity, error) {
	activity, err := s.repo.Get(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// ListActivities fetches activities with cursor pagination and filters.
func (s *Service) ListActivities(ctx context.Context, userID string, filter ListFilter, cursor *Cursor, limit int) ([]Activity, *Cursor, error) {
	return s.repo.ListByUser(ctx, userID, filter, cursor, limit)
}

// UpdateActivityInput carries a user edit of an existing record.
type UpdateActivityInput struct {
	UserID      string
	ActivityID  string
	Description string
	Category    Category
}

// UpdateActivity applies a user edit to description and/or category. Editing
// never re-triggers classification: the stored emission stands.
func (s *Service) UpdateActivity(ctx context.Context, input UpdateActivityInput) (*Activity, error) {
	activity, err := s.GetActivity(ctx, input.UserID, input.ActivityID)
	if err != nil {
		return nil, err
	}

	if desc := strings.TrimSpace(input.Description); desc != "" {
		activity.Description = desc
	}
	if input.Category != "" {
		if !input.Category.Valid() {
			return nil, ErrInvalidCategory
		}
		activity.Category = input.Category
	}
	activity.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, *activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// DeleteActivity removes the record and queues its deletion event.
func (s *Service) DeleteActivity(ctx context.Context, userID, activityID string) error {
	return s.repo.Delete(ctx, userID, activityID)
}

// RecentWindow returns the activities feeding the daily and weekly views:
// the trailing 7 calendar days ending today.
func (s *Service) RecentWindow(ctx context.Context, userID string, today Date) ([]Activity, error) {
	return s.repo.ListByDateRange(ctx, userID, today.AddDays(-6), today)
}

// ComparisonHistory returns the archived rollups needed for the
// week-over-week delta: the 7 days preceding the current window.
func (s *Service) ComparisonHistory(ctx context.Context, userID string, today Date) ([]DailyHistory, error) {
	return s.repo.HistoryByDateRange(ctx, userID, today.AddDays(-13), today.AddDays(-7))
}

// HeatmapData returns both inputs for the 84-day grid: fine-grained
// activities for the recent window plus archived rollups for older dates.
func (s *Service) HeatmapData(ctx context.Context, userID string, today Date) ([]Activity, []DailyHistory, error) {
	from := today.AddDays(-83)
	activities, err := s.repo.ListByDateRange(ctx, userID, from, today)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.repo.HistoryByDateRange(ctx, userID, from, today)
	if err != nil {
		return nil, nil, err
	}
	return activities, history, nil
}
