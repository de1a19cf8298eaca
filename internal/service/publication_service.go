package service

import (
	"errors"

	"github.com/pressroom/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPublicationNotFound = errors.New("publication not found")
	ErrNotOwner            = errors.New("you are not authorized to perform this action")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
	ErrEmptyBulkRequest    = errors.New("no publications specified for deletion")
)

// Pagination bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PublicationService wraps publication related database operations, scoped
// to the owning author.
type PublicationService struct {
	db *gorm.DB
}

// PublicationFilter describes filters for listing publications.
type PublicationFilter struct {
	Status string
	Page   int
	Limit  int
}

// PublicationListResult aggregates paginated list data and metadata.
type PublicationListResult struct {
	Publications []db.Publication
	Total        int64
	Page         int
	Limit        int
	Pages        int
}

// PublicationInput represents fields accepted when creating a publication.
type PublicationInput struct {
	Title   string
	Content string
	Status  string
}

// PublicationPatch carries the optional fields of a partial update. Nil
// means "leave unchanged"; column assignments are mapped from the present
// fields only, never built from field-name strings.
type PublicationPatch struct {
	Title   *string
	Content *string
	Status  *string
}

// PublicationStats counts the caller's visible publications per status.
type PublicationStats struct {
	Total     int64 `json:"total"`
	Draft     int64 `json:"draft"`
	Published int64 `json:"published"`
	Archived  int64 `json:"archived"`
}

// NewPublicationService creates a PublicationService instance.
func NewPublicationService(gdb *gorm.DB) *PublicationService {
	return &PublicationService{db: gdb}
}

// List returns the author's visible publications ordered by most recently
// updated, paginated. Limit is clamped to MaxLimit.
func (s *PublicationService) List(authorID uint, filter PublicationFilter) (*PublicationListResult, error) {
	result := &PublicationListResult{Page: filter.Page, Limit: filter.Limit}
	if result.Page <= 0 {
		result.Page = DefaultPage
	}
	if result.Limit <= 0 {
		result.Limit = DefaultLimit
	}
	if result.Limit > MaxLimit {
		result.Limit = MaxLimit
	}

	countQuery := s.db.Model(&db.Publication{}).Where("author_id = ?", authorID)
	countQuery = applyStatusFilter(countQuery, filter.Status)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.Limit

	dataQuery := s.db.Where("author_id = ?", authorID)
	dataQuery = applyStatusFilter(dataQuery, filter.Status)

	var publications []db.Publication
	if err := dataQuery.
		Order("updated_at desc").
		Limit(result.Limit).
		Offset(offset).
		Find(&publications).Error; err != nil {
		return nil, err
	}

	result.Pages = int((result.Total + int64(result.Limit) - 1) / int64(result.Limit))
	result.Publications = publications
	return result, nil
}

// Get fetches a visible publication by id. A publication owned by another
// user is reported as ErrNotOwner, an absent or deleted one as
// ErrPublicationNotFound.
func (s *PublicationService) Get(id, authorID uint) (*db.Publication, error) {
	var publication db.Publication
	if err := s.db.First(&publication, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPublicationNotFound
		}
		return nil, err
	}

	if publication.AuthorID != authorID {
		return nil, ErrNotOwner
	}

	return &publication, nil
}

// Create persists a new publication owned by authorID. Status defaults to
// draft when omitted.
func (s *PublicationService) Create(authorID uint, input PublicationInput) (*db.Publication, error) {
	status := input.Status
	if status == "" {
		status = db.StatusDraft
	}

	publication := db.Publication{
		Title:    input.Title,
		Content:  input.Content,
		Status:   status,
		AuthorID: authorID,
	}
	if err := s.db.Create(&publication).Error; err != nil {
		return nil, err
	}

	return &publication, nil
}

// Update applies the present patch fields to an owned, visible publication
// and returns the full updated row.
func (s *PublicationService) Update(id, authorID uint, patch PublicationPatch) (*db.Publication, error) {
	if _, err := s.Get(id, authorID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.db.Model(&db.Publication{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.Get(id, authorID)
}

// SoftDelete marks an owned, visible publication as deleted. The mutation
// is a single conditional update; zero affected rows means the row was
// already deleted out from under us.
func (s *PublicationService) SoftDelete(id, authorID uint) error {
	if _, err := s.Get(id, authorID); err != nil {
		return err
	}

	res := s.db.Where("author_id = ?", authorID).Delete(&db.Publication{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPublicationNotFound
	}
	return nil
}

// Restore brings a soft-deleted publication back, refreshing updated_at.
// It only succeeds on a currently-deleted row owned by authorID; anything
// else is reported as not found.
func (s *PublicationService) Restore(id, authorID uint) (*db.Publication, error) {
	res := s.db.Unscoped().
		Model(&db.Publication{}).
		Where("id = ? AND author_id = ? AND deleted_at IS NOT NULL", id, authorID).
		Update("deleted_at", nil)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrPublicationNotFound
	}

	return s.Get(id, authorID)
}

// BulkSoftDelete marks every listed publication that is owned by authorID
// and still visible as deleted, in one statement. Non-matching ids are
// skipped; the affected count is returned. A batch that matches nothing is
// reported as not found.
func (s *PublicationService) BulkSoftDelete(ids []uint, authorID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptyBulkRequest
	}

	res := s.db.Where("id IN ? AND author_id = ?", ids, authorID).Delete(&db.Publication{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrPublicationNotFound
	}
	return res.RowsAffected, nil
}

// Stats counts the author's visible publications per status.
func (s *PublicationService) Stats(authorID uint) (*PublicationStats, error) {
	stats := &PublicationStats{}

	base := s.db.Model(&db.Publication{}).Where("author_id = ?", authorID)
	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	counts := []struct {
		status string
		dest   *int64
	}{
		{db.StatusDraft, &stats.Draft},
		{db.StatusPublished, &stats.Published},
		{db.StatusArchived, &stats.Archived},
	}
	for _, c := range counts {
		if err := base.Session(&gorm.Session{}).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	return stats, nil
}

func applyStatusFilter(query *gorm.DB, status string) *gorm.DB {
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return query
}
