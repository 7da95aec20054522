package db

import (
	"time"

	"gorm.io/gorm"
)

// DocumentBranch 表示单个文档下的一条命名开发线。
// (document_id, name) 全局唯一，合并后分支被标记为不活跃但永不删除。
type DocumentBranch struct {
	gorm.Model
	DocumentID    uint   `gorm:"uniqueIndex:idx_document_branch_name;not null"`
	Name          string `gorm:"uniqueIndex:idx_document_branch_name;size:120;not null"`
	CreatedFromID *uint
	IsMain        bool
	IsActive      bool `gorm:"default:true"`
	MergedAt      *time.Time
	MergedIntoID  *uint
}

// TableName 指定自定义表名。
func (DocumentBranch) TableName() string {
	return "document_branches"
}
