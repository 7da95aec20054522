package service

import (
	"errors"
	"fmt"

	"github.com/draftsmith/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrVersionNotFound = errors.New("version not found")

// VersionService 负责创建与读取不可变的文档版本记录。
type VersionService struct {
	db       *gorm.DB
	branches *BranchService
}

// VersionOptions 描述创建版本时的可选参数。
type VersionOptions struct {
	BranchName    string
	CreateBranch  bool
	FromVersionID *uint
	ChangeSummary string
	CreatedBy     uint
}

// NewVersionService creates a VersionService instance.
func NewVersionService(gdb *gorm.DB) *VersionService {
	return &VersionService{db: gdb, branches: NewBranchService(gdb)}
}

// CreateVersion 为文档追加一条新的版本快照。
// 版本号取自计数查询，事务内完成计数与写入；派生指标在此一次性填充。
func (s *VersionService) CreateVersion(documentID uint, snapshot ContentSnapshot, opts VersionOptions) (*db.DocumentVersion, error) {
	var document db.Document
	if err := s.db.First(&document, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	var branchID *uint
	if opts.BranchName != "" || opts.CreateBranch {
		name := opts.BranchName
		if name == "" {
			name = synthesizeBranchName()
		}
		branch, err := s.branches.GetOrCreate(documentID, name, opts.FromVersionID)
		if err != nil {
			return nil, err
		}
		branchID = &branch.ID
	}

	metrics := CalculateMetrics(snapshot)

	version := db.DocumentVersion{
		DocumentID:       documentID,
		BranchID:         branchID,
		Title:            snapshot.Title,
		Content:          snapshot.Content,
		MetaDescription:  snapshot.MetaDescription,
		Excerpt:          snapshot.Excerpt,
		Status:           snapshot.Status,
		FocusKeyword:     snapshot.FocusKeyword,
		Keywords:         db.EncodeKeywords(snapshot.Keywords),
		WordCount:        metrics.WordCount,
		KeywordDensity:   metrics.KeywordDensity,
		SEOScore:         metrics.SEOScore,
		ReadabilityScore: metrics.ReadabilityScore,
		ChangeSummary:    opts.ChangeSummary,
		CreatedBy:        opts.CreatedBy,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.DocumentVersion{}).
			Where("document_id = ?", documentID).
			Count(&count).Error; err != nil {
			return err
		}
		version.VersionNumber = fmt.Sprintf("v%d.0", count+1)

		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		return tx.Model(&db.Document{}).
			Where("id = ?", documentID).
			Updates(map[string]interface{}{
				"version_count":     count + 1,
				"latest_version_id": version.ID,
			}).Error
	}); err != nil {
		return nil, err
	}

	return &version, nil
}

// ListVersions 返回文档的版本列表，按创建时间倒序。
// 指定分支名时只返回该分支的版本；分支不存在返回空列表而非错误。
func (s *VersionService) ListVersions(documentID uint, branchName string) ([]db.DocumentVersion, error) {
	query := s.db.Where("document_id = ?", documentID)

	if branchName != "" {
		branch, err := s.branches.GetByName(documentID, branchName)
		if err != nil {
			if errors.Is(err, ErrBranchNotFound) {
				return []db.DocumentVersion{}, nil
			}
			return nil, err
		}
		query = query.Where("branch_id = ?", branch.ID)
	}

	var versions []db.DocumentVersion
	if err := query.Order("created_at desc, id desc").Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// Get fetches a version by id.
func (s *VersionService) Get(versionID uint) (*db.DocumentVersion, error) {
	var version db.DocumentVersion
	if err := s.db.First(&version, versionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	return &version, nil
}

// LatestInBranch 返回分支中最近创建的版本。分支为空时返回 ErrVersionNotFound。
func (s *VersionService) LatestInBranch(branchID uint) (*db.DocumentVersion, error) {
	var version db.DocumentVersion
	err := s.db.Where("branch_id = ?", branchID).
		Order("created_at desc, id desc").
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	return &version, nil
}

func synthesizeBranchName() string {
	return "branch-" + uuid.NewString()[:8]
}
