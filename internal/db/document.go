package db

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Document 定义了文档模型，存储内容的当前（head）状态。
type Document struct {
	gorm.Model
	Title           string
	Content         string `gorm:"type:text"`
	MetaDescription string `gorm:"type:text"`
	Excerpt         string `gorm:"type:text"`
	Status          string `gorm:"size:20;default:'draft'"`
	FocusKeyword    string
	Keywords        string `gorm:"type:text"`
	UserID          uint
	User            User
	VersionCount    int
	LatestVersionID *uint
}

// KeywordList 反序列化次要关键词列表，字段为空时返回 nil。
func (d *Document) KeywordList() []string {
	return DecodeKeywords(d.Keywords)
}

// SetKeywordList 序列化并写入次要关键词列表。
func (d *Document) SetKeywordList(keywords []string) {
	d.Keywords = EncodeKeywords(keywords)
}

// EncodeKeywords 将关键词列表序列化为 JSON 文本，空列表得到空串。
func EncodeKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	encoded, err := json.Marshal(keywords)
	if err != nil {
		return ""
	}
	return string(encoded)
}

// DecodeKeywords 解析 JSON 文本形式的关键词列表，解析失败时返回 nil。
func DecodeKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
		return nil
	}
	return keywords
}
