package service

import (
	"errors"
	"fmt"

	"github.com/draftsmith/internal/db"
	"gorm.io/gorm"
)

var (
	ErrVersionMismatch = errors.New("version does not belong to document")
	ErrBranchEmpty     = errors.New("branch has no versions to merge")
	ErrBranchMismatch  = errors.New("branches belong to different documents")
)

// HistoryService 以"追加新版本"的方式表达回滚与合并，从不改写既有版本。
type HistoryService struct {
	db          *gorm.DB
	documents   *DocumentService
	versions    *VersionService
	branches    *BranchService
	comparisons *ComparisonService
}

// RollbackOptions 描述回滚操作的可选参数。
type RollbackOptions struct {
	CreateBranch    bool
	BranchName      string
	PreserveCurrent bool
	CreatedBy       uint
}

// NewHistoryService creates a HistoryService instance.
func NewHistoryService(gdb *gorm.DB) *HistoryService {
	return &HistoryService{
		db:          gdb,
		documents:   NewDocumentService(gdb),
		versions:    NewVersionService(gdb),
		branches:    NewBranchService(gdb),
		comparisons: NewComparisonService(gdb),
	}
}

// RollbackToVersion 将目标版本的快照重放为一条新版本。
// 不保留当前内容时（默认），同时用目标快照覆盖文档 head 字段。
func (s *HistoryService) RollbackToVersion(documentID, targetVersionID uint, opts RollbackOptions) (*db.DocumentVersion, error) {
	target, err := s.versions.Get(targetVersionID)
	if err != nil {
		return nil, err
	}
	if target.DocumentID != documentID {
		return nil, ErrVersionMismatch
	}

	var document db.Document
	if err := s.db.First(&document, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	previousLatestID := document.LatestVersionID

	snapshot := snapshotFromVersion(target)
	versionOpts := VersionOptions{
		ChangeSummary: fmt.Sprintf("Rollback to version %s", target.VersionNumber),
		CreatedBy:     opts.CreatedBy,
	}

	if opts.CreateBranch {
		versionOpts.CreateBranch = true
		versionOpts.BranchName = opts.BranchName
		versionOpts.FromVersionID = &target.ID
	}

	version, err := s.versions.CreateVersion(documentID, snapshot, versionOpts)
	if err != nil {
		return nil, err
	}

	if !opts.CreateBranch && !opts.PreserveCurrent {
		if _, err := s.documents.ApplySnapshot(documentID, snapshot); err != nil {
			return nil, err
		}
	}

	// 审计记录：回滚前的最新版本与回滚产生的新版本之间的差异。
	if previousLatestID != nil {
		if _, err := s.comparisons.Compare(*previousLatestID, version.ID); err != nil {
			return nil, err
		}
	}

	return version, nil
}

// MergeBranches 将源分支的最新版本作为新版本并入目标分支，
// 然后将源分支标记为已合并。冲突语义为 last-writer-wins。
func (s *HistoryService) MergeBranches(sourceBranchID, targetBranchID uint, message string, createdBy uint) (*db.DocumentVersion, error) {
	source, err := s.branches.Get(sourceBranchID)
	if err != nil {
		return nil, err
	}
	target, err := s.branches.Get(targetBranchID)
	if err != nil {
		return nil, err
	}

	if source.DocumentID != target.DocumentID {
		return nil, ErrBranchMismatch
	}
	if source.MergedAt != nil || source.MergedIntoID != nil {
		return nil, ErrBranchAlreadyMerged
	}

	latest, err := s.versions.LatestInBranch(sourceBranchID)
	if err != nil {
		if errors.Is(err, ErrVersionNotFound) {
			return nil, ErrBranchEmpty
		}
		return nil, err
	}

	summary := message
	if summary == "" {
		summary = fmt.Sprintf("Merge %s into %s", source.Name, target.Name)
	}

	previousTargetLatest, err := s.versions.LatestInBranch(targetBranchID)
	if err != nil && !errors.Is(err, ErrVersionNotFound) {
		return nil, err
	}

	version, err := s.versions.CreateVersion(target.DocumentID, snapshotFromVersion(latest), VersionOptions{
		BranchName:    target.Name,
		ChangeSummary: summary,
		CreatedBy:     createdBy,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.branches.MarkMerged(sourceBranchID, targetBranchID); err != nil {
		return nil, err
	}

	// 审计记录：合并前后目标分支最新版本的差异。
	if previousTargetLatest != nil {
		if _, err := s.comparisons.Compare(previousTargetLatest.ID, version.ID); err != nil {
			return nil, err
		}
	}

	return version, nil
}

func snapshotFromVersion(version *db.DocumentVersion) ContentSnapshot {
	return ContentSnapshot{
		Title:           version.Title,
		Content:         version.Content,
		MetaDescription: version.MetaDescription,
		Excerpt:         version.Excerpt,
		Status:          version.Status,
		FocusKeyword:    version.FocusKeyword,
		Keywords:        version.KeywordList(),
	}
}
