package service

import (
	"errors"
	"time"

	"github.com/draftsmith/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBranchNotFound      = errors.New("branch not found")
	ErrBranchAlreadyMerged = errors.New("branch is already merged")
)

// BranchService 管理单个文档下命名分支的生命周期。
type BranchService struct {
	db *gorm.DB
}

// NewBranchService creates a BranchService instance.
func NewBranchService(gdb *gorm.DB) *BranchService {
	return &BranchService{db: gdb}
}

// Get fetches a branch by id.
func (s *BranchService) Get(id uint) (*db.DocumentBranch, error) {
	var branch db.DocumentBranch
	if err := s.db.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// GetByName fetches a branch by (documentID, name).
func (s *BranchService) GetByName(documentID uint, name string) (*db.DocumentBranch, error) {
	var branch db.DocumentBranch
	err := s.db.Where("document_id = ? AND name = ?", documentID, name).First(&branch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// List returns all branches of a document ordered by creation time.
func (s *BranchService) List(documentID uint) ([]db.DocumentBranch, error) {
	var branches []db.DocumentBranch
	if err := s.db.Where("document_id = ?", documentID).
		Order("created_at asc, id asc").
		Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// GetOrCreate 按 (documentID, name) 幂等地获取或创建分支。
// 并发创建撞上唯一约束时回退为读取既有记录，不向调用方抛错。
func (s *BranchService) GetOrCreate(documentID uint, name string, fromVersionID *uint) (*db.DocumentBranch, error) {
	if existing, err := s.GetByName(documentID, name); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrBranchNotFound) {
		return nil, err
	}

	branch := db.DocumentBranch{
		DocumentID:    documentID,
		Name:          name,
		CreatedFromID: fromVersionID,
		IsMain:        name == "main",
		IsActive:      true,
	}
	if err := s.db.Create(&branch).Error; err != nil {
		// 唯一索引冲突意味着并发方已抢先创建，改读现有行。
		if existing, fetchErr := s.GetByName(documentID, name); fetchErr == nil {
			return existing, nil
		}
		return nil, err
	}

	return &branch, nil
}

// MarkMerged 将分支标记为已合并到目标分支。合并是终态，重复合并会失败。
func (s *BranchService) MarkMerged(branchID, targetBranchID uint) (*db.DocumentBranch, error) {
	branch, err := s.Get(branchID)
	if err != nil {
		return nil, err
	}

	if branch.MergedAt != nil || branch.MergedIntoID != nil {
		return nil, ErrBranchAlreadyMerged
	}

	now := time.Now()
	branch.IsActive = false
	branch.MergedAt = &now
	branch.MergedIntoID = &targetBranchID

	if err := s.db.Save(branch).Error; err != nil {
		return nil, err
	}
	return branch, nil
}
