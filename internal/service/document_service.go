package service

import (
	"errors"
	"strings"

	"github.com/draftsmith/internal/db"
	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

// 文档状态的取值集合。
const (
	DocumentStatusDraft     = "draft"
	DocumentStatusPublished = "published"
	DocumentStatusArchived  = "archived"
)

// DocumentService wraps document related database operations.
type DocumentService struct {
	db *gorm.DB
}

// DocumentInput represents fields accepted when creating or updating a document.
type DocumentInput struct {
	Title           string
	Content         string
	MetaDescription string
	Excerpt         string
	Status          string
	FocusKeyword    string
	Keywords        []string
	UserID          uint
}

// DocumentFilter describes filters for listing documents.
type DocumentFilter struct {
	Search  string
	Status  string
	Page    int
	PerPage int
}

// DocumentListResult aggregates paginated list data and counters.
type DocumentListResult struct {
	Documents      []db.Document
	Total          int64
	PublishedCount int64
	DraftCount     int64
	TotalPages     int
	Page           int
	PerPage        int
}

// NewDocumentService creates a DocumentService instance.
func NewDocumentService(gdb *gorm.DB) *DocumentService {
	return &DocumentService{db: gdb}
}

// Get fetches a document by id.
func (s *DocumentService) Get(id uint) (*db.Document, error) {
	var document db.Document
	if err := s.db.Preload("User").First(&document, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &document, nil
}

// Create persists a new document with the caller supplied head fields.
func (s *DocumentService) Create(input DocumentInput) (*db.Document, error) {
	status := normalizeDocumentStatus(input.Status)

	document := db.Document{
		Title:           strings.TrimSpace(input.Title),
		Content:         input.Content,
		MetaDescription: strings.TrimSpace(input.MetaDescription),
		Excerpt:         strings.TrimSpace(input.Excerpt),
		Status:          status,
		FocusKeyword:    strings.TrimSpace(input.FocusKeyword),
		UserID:          input.UserID,
	}
	document.SetKeywordList(input.Keywords)

	if err := s.db.Create(&document).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

// Update applies updates to an existing document's head fields.
func (s *DocumentService) Update(id uint, input DocumentInput) (*db.Document, error) {
	var existing db.Document
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Content = input.Content
	existing.MetaDescription = strings.TrimSpace(input.MetaDescription)
	existing.Excerpt = strings.TrimSpace(input.Excerpt)
	existing.Status = normalizeDocumentStatus(input.Status)
	existing.FocusKeyword = strings.TrimSpace(input.FocusKeyword)
	existing.SetKeywordList(input.Keywords)

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// ApplySnapshot 用快照内容覆盖文档的 head 字段。
// 唯一的调用场景是不保留当前内容的回滚（见 HistoryService）。
func (s *DocumentService) ApplySnapshot(id uint, snapshot ContentSnapshot) (*db.Document, error) {
	var existing db.Document
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	existing.Title = snapshot.Title
	existing.Content = snapshot.Content
	existing.MetaDescription = snapshot.MetaDescription
	existing.Excerpt = snapshot.Excerpt
	if snapshot.Status != "" {
		existing.Status = snapshot.Status
	}
	existing.FocusKeyword = snapshot.FocusKeyword
	existing.SetKeywordList(snapshot.Keywords)

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// Delete removes a document by id.
func (s *DocumentService) Delete(id uint) error {
	return s.db.Delete(&db.Document{}, id).Error
}

// List provides paginated documents with aggregated counters based on filters.
func (s *DocumentService) List(filter DocumentFilter) (*DocumentListResult, error) {
	result := &DocumentListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	modelQuery := s.applyFilters(s.db.Model(&db.Document{}), filter, true)
	if err := modelQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var documents []db.Document
	dataQuery := s.applyFilters(s.db.Model(&db.Document{}).Preload("User"), filter, true)
	if err := dataQuery.Order("documents.created_at desc, documents.id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&documents).Error; err != nil {
		return nil, err
	}

	// 状态计数各自从新查询构建，避免链式条件叠加到同一实例上。
	filterWithoutStatus := filter
	filterWithoutStatus.Status = ""

	publishedCounter := s.applyFilters(s.db.Model(&db.Document{}), filterWithoutStatus, false)
	if err := publishedCounter.Where("documents.status = ?", DocumentStatusPublished).
		Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}
	draftCounter := s.applyFilters(s.db.Model(&db.Document{}), filterWithoutStatus, false)
	if err := draftCounter.Where("documents.status = ?", DocumentStatusDraft).
		Count(&result.DraftCount).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Documents = documents
	return result, nil
}

func (s *DocumentService) applyFilters(query *gorm.DB, filter DocumentFilter, includeStatus bool) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where(
			"(documents.title LIKE ? OR documents.content LIKE ? OR documents.excerpt LIKE ?)",
			search, search, search,
		)
	}

	if includeStatus && filter.Status != "" {
		query = query.Where("documents.status = ?", filter.Status)
	}

	return query
}

func normalizeDocumentStatus(status string) string {
	switch strings.TrimSpace(strings.ToLower(status)) {
	case DocumentStatusPublished:
		return DocumentStatusPublished
	case DocumentStatusArchived:
		return DocumentStatusArchived
	default:
		return DocumentStatusDraft
	}
}
