package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

const (
	defaultOpenAIMetaModel   = "gpt-4o-mini"
	defaultDeepSeekMetaModel = "deepseek-chat"
	defaultMetaMaxTokens     = 320
	defaultMetaTemperature   = 0.2
	maxMetaContentRuneCount  = 4000
)

// ErrMetadataEmpty 表示模型未返回可用的元数据。
var ErrMetadataEmpty = errors.New("ai metadata returned empty result")

// MetaInput 描述生成 SEO 元数据所需的上下文。
type MetaInput struct {
	Title        string
	Content      string
	FocusKeyword string
	MaxTokens    int
}

// MetaResult 返回模型生成的元描述与摘要。
type MetaResult struct {
	MetaDescription  string
	Excerpt          string
	PromptTokens     int
	CompletionTokens int
}

// MetaGenerator 定义元数据生成能力，便于在业务层注入不同实现。
type MetaGenerator interface {
	GenerateMetadata(ctx context.Context, input MetaInput) (MetaResult, error)
}

// AIMetaService 基于大模型接口为既有正文生成元描述与摘要。
type AIMetaService struct {
	client *aiChatClient
}

// NewAIMetaService 构造默认的 AIMetaService。
func NewAIMetaService(settings *SystemSettingService) *AIMetaService {
	return &AIMetaService{
		client: newAIChatClient(settings, defaultOpenAIMetaModel, defaultDeepSeekMetaModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIMetaService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL 覆盖默认的 OpenAI API 地址。
func (s *AIMetaService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL 覆盖默认的 DeepSeek API 地址。
func (s *AIMetaService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

type metaPayload struct {
	MetaDescription string `json:"metaDescription"`
	Excerpt         string `json:"excerpt"`
}

// GenerateMetadata 调用当前配置的 AI 平台生成元描述与摘要。
// 模型约定输出 JSON；解析失败时整段文本退化为元描述。
func (s *AIMetaService) GenerateMetadata(ctx context.Context, input MetaInput) (MetaResult, error) {
	maxTokens := input.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMetaMaxTokens
	}

	contentSnippet := truncateRunes(strings.TrimSpace(input.Content), maxMetaContentRuneCount)
	userPrompt := buildMetaPrompt(input.Title, contentSnippet, input.FocusKeyword)
	logModelExchange("metadata", "prompt", userPrompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: "你是一名 SEO 编辑，请为给定文章生成元数据。要求：\n1. metaDescription 为 120-160 字符的搜索结果描述，自然包含核心关键词。\n2. excerpt 为两到三句话的文章摘要。\n3. 仅输出 JSON 对象：{\"metaDescription\": \"...\", \"excerpt\": \"...\"}，不要附加其它内容。",
		UserPrompt:   userPrompt,
		MaxTokens:    maxTokens,
		Temperature:  defaultMetaTemperature,
	})
	if err != nil {
		return MetaResult{}, err
	}

	raw := strings.TrimSpace(result.Content)
	logModelExchange("metadata", "response", raw)
	if raw == "" {
		return MetaResult{}, ErrMetadataEmpty
	}

	var payload metaPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		payload = metaPayload{MetaDescription: raw}
	}

	meta := MetaResult{
		MetaDescription:  strings.TrimSpace(payload.MetaDescription),
		Excerpt:          strings.TrimSpace(payload.Excerpt),
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}
	if meta.MetaDescription == "" && meta.Excerpt == "" {
		return MetaResult{}, ErrMetadataEmpty
	}

	return meta, nil
}

func buildMetaPrompt(title, content, focusKeyword string) string {
	var builder strings.Builder
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		builder.WriteString("标题：")
		builder.WriteString(trimmed)
		builder.WriteString("\n")
	}
	if trimmed := strings.TrimSpace(focusKeyword); trimmed != "" {
		builder.WriteString("核心关键词：")
		builder.WriteString(trimmed)
		builder.WriteString("\n")
	}
	if content != "" {
		builder.WriteString("正文：\n")
		builder.WriteString(content)
	}
	return builder.String()
}

// stripCodeFence 去掉模型偶尔包裹在 JSON 外层的 Markdown 代码块标记。
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
