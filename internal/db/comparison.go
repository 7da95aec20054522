package db

import "gorm.io/gorm"

// VersionComparison 缓存两个版本之间的有向差异结果。
// 以有序对 (from_version_id, to_version_id) 为唯一键，同一对至多一行。
type VersionComparison struct {
	gorm.Model
	FromVersionID uint `gorm:"uniqueIndex:idx_comparison_pair;not null"`
	ToVersionID   uint `gorm:"uniqueIndex:idx_comparison_pair;not null"`

	// DiffSummary 与 ChangedFields 以 JSON 文本持久化。
	DiffSummary   string `gorm:"type:text"`
	ChangedFields string `gorm:"type:text"`

	AddedWords      int
	RemovedWords    int
	ModifiedWords   int
	SimilarityScore float64
}

// TableName 指定自定义表名。
func (VersionComparison) TableName() string {
	return "version_comparisons"
}
