package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/draftsmith/internal/db"
	"gorm.io/gorm"
)

// FieldDiff 描述单个字段从旧版本到新版本的变化。
type FieldDiff struct {
	Old    string `json:"old,omitempty"`
	New    string `json:"new,omitempty"`
	Change string `json:"change"`
}

// DiffSummary 以字段名为键汇总有向的差异描述，未变化的字段不出现。
type DiffSummary map[string]FieldDiff

// ComparisonService 计算并缓存两个版本之间的差异与相似度。
type ComparisonService struct {
	db       *gorm.DB
	versions *VersionService
}

// NewComparisonService creates a ComparisonService instance.
func NewComparisonService(gdb *gorm.DB) *ComparisonService {
	return &ComparisonService{db: gdb, versions: NewVersionService(gdb)}
}

// Compare 返回有序对 (fromVersionID, toVersionID) 的差异结果。
// 同一有序对至多计算一次，之后命中缓存直接返回。
func (s *ComparisonService) Compare(fromVersionID, toVersionID uint) (*db.VersionComparison, error) {
	if cached, err := s.lookup(fromVersionID, toVersionID); err == nil {
		return cached, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	from, err := s.versions.Get(fromVersionID)
	if err != nil {
		return nil, err
	}
	to, err := s.versions.Get(toVersionID)
	if err != nil {
		return nil, err
	}

	summary := buildDiffSummary(from, to)
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	changedFields := collectChangedFields(from, to)
	changedJSON, err := json.Marshal(changedFields)
	if err != nil {
		return nil, err
	}

	oldCount := CountWords(from.Content)
	newCount := CountWords(to.Content)

	comparison := db.VersionComparison{
		FromVersionID:   fromVersionID,
		ToVersionID:     toVersionID,
		DiffSummary:     string(summaryJSON),
		ChangedFields:   string(changedJSON),
		AddedWords:      maxInt(0, newCount-oldCount),
		RemovedWords:    maxInt(0, oldCount-newCount),
		ModifiedWords:   minInt(oldCount, newCount),
		SimilarityScore: jaccardSimilarity(from.Content, to.Content),
	}

	if err := s.db.Create(&comparison).Error; err != nil {
		// 唯一键冲突说明并发方已写入同一有序对，按缓存命中处理。
		if cached, lookupErr := s.lookup(fromVersionID, toVersionID); lookupErr == nil {
			return cached, nil
		}
		return nil, err
	}

	return &comparison, nil
}

func (s *ComparisonService) lookup(fromVersionID, toVersionID uint) (*db.VersionComparison, error) {
	var comparison db.VersionComparison
	err := s.db.Where("from_version_id = ? AND to_version_id = ?", fromVersionID, toVersionID).
		First(&comparison).Error
	if err != nil {
		return nil, err
	}
	return &comparison, nil
}

// ParseDiffSummary 反序列化缓存记录里的差异描述。
func ParseDiffSummary(comparison *db.VersionComparison) (DiffSummary, error) {
	summary := DiffSummary{}
	if comparison.DiffSummary == "" {
		return summary, nil
	}
	if err := json.Unmarshal([]byte(comparison.DiffSummary), &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// ParseChangedFields 反序列化缓存记录里的变更字段列表。
func ParseChangedFields(comparison *db.VersionComparison) ([]string, error) {
	if comparison.ChangedFields == "" {
		return nil, nil
	}
	var fields []string
	if err := json.Unmarshal([]byte(comparison.ChangedFields), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// buildDiffSummary 生成有向差异描述。正文用词数增减描述，
// 其余文本字段在不相等时记录 modified 及前后取值。
func buildDiffSummary(from, to *db.DocumentVersion) DiffSummary {
	summary := DiffSummary{}

	textFields := []struct {
		name     string
		old, new string
	}{
		{"title", from.Title, to.Title},
		{"metaDescription", from.MetaDescription, to.MetaDescription},
		{"excerpt", from.Excerpt, to.Excerpt},
	}
	for _, field := range textFields {
		if field.old != field.new {
			summary[field.name] = FieldDiff{Old: field.old, New: field.new, Change: "modified"}
		}
	}

	if from.Content != to.Content {
		oldCount := CountWords(from.Content)
		newCount := CountWords(to.Content)
		change := ""
		switch {
		case newCount > oldCount:
			change = fmt.Sprintf("added %d words", newCount-oldCount)
		case newCount < oldCount:
			change = fmt.Sprintf("removed %d words", oldCount-newCount)
		default:
			change = "rewritten with same word count"
		}
		summary["content"] = FieldDiff{Change: change}
	}

	return summary
}

func collectChangedFields(from, to *db.DocumentVersion) []string {
	fields := []string{}
	if from.Title != to.Title {
		fields = append(fields, "title")
	}
	if from.Content != to.Content {
		fields = append(fields, "content")
	}
	if from.MetaDescription != to.MetaDescription {
		fields = append(fields, "metaDescription")
	}
	if from.Excerpt != to.Excerpt {
		fields = append(fields, "excerpt")
	}
	if from.FocusKeyword != to.FocusKeyword {
		fields = append(fields, "focusKeyword")
	}
	// 关键词列表按序列化后的文本比较，不做集合语义。
	if from.Keywords != to.Keywords {
		fields = append(fields, "keywords")
	}
	return fields
}

// jaccardSimilarity 计算两段正文小写分词集合的 Jaccard 系数。
func jaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	union := len(setB)
	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(content string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, token := range strings.Fields(strings.ToLower(content)) {
		set[token] = struct{}{}
	}
	return set
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
