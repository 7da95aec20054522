package db

import "gorm.io/gorm"

// DocumentVersion 记录文档在某一时刻的不可变快照。
// 快照字段在创建后不再修改，历史的任何变化都通过追加新版本表达。
type DocumentVersion struct {
	gorm.Model
	DocumentID uint `gorm:"index;not null"`
	Document   Document
	// VersionNumber 形如 v3.0，是展示用标签；行主键才承担唯一性。
	VersionNumber string `gorm:"size:20"`
	BranchID      *uint  `gorm:"index"`
	Branch        *DocumentBranch

	Title           string
	Content         string `gorm:"type:text"`
	MetaDescription string `gorm:"type:text"`
	Excerpt         string `gorm:"type:text"`
	Status          string `gorm:"size:20"`
	FocusKeyword    string
	Keywords        string `gorm:"type:text"`

	// 创建时由指标计算器一次性填充，之后不再重算。
	WordCount        int
	KeywordDensity   *float64
	SEOScore         *float64 `gorm:"column:seo_score"`
	ReadabilityScore float64

	ChangeSummary string `gorm:"type:text"`
	CreatedBy     uint
}

// TableName 指定自定义表名。
func (DocumentVersion) TableName() string {
	return "document_versions"
}

// KeywordList 反序列化快照中的次要关键词列表。
func (v *DocumentVersion) KeywordList() []string {
	return DecodeKeywords(v.Keywords)
}
