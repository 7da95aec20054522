package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	defaultOpenAIDraftModel   = "gpt-4o-mini"
	defaultDeepSeekDraftModel = "deepseek-chat"
	defaultDraftMaxTokens     = 4096
	defaultDraftTemperature   = 0.7
)

// ErrDraftEmpty 表示模型未返回可用正文。
var ErrDraftEmpty = errors.New("ai draft returned empty content")

// DraftInput 描述生成长文草稿所需的上下文。
type DraftInput struct {
	Topic        string
	FocusKeyword string
	Keywords     []string
	// MaxTokens 控制模型输出上限，0 表示使用默认值。
	MaxTokens int
}

// DraftResult 返回模型生成的 Markdown 草稿及用量信息。
type DraftResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// ContentDrafter 定义长文草稿生成能力，便于在业务层注入不同实现。
type ContentDrafter interface {
	GenerateDraft(ctx context.Context, input DraftInput) (DraftResult, error)
}

// AIDraftService 基于大模型接口围绕主题与关键词撰写长文草稿。
type AIDraftService struct {
	client *aiChatClient
}

// NewAIDraftService 构造默认的 AIDraftService。
func NewAIDraftService(settings *SystemSettingService) *AIDraftService {
	return &AIDraftService{
		client: newAIChatClient(settings, defaultOpenAIDraftModel, defaultDeepSeekDraftModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIDraftService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL 覆盖默认的 OpenAI API 地址。
func (s *AIDraftService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL 覆盖默认的 DeepSeek API 地址。
func (s *AIDraftService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

// GenerateDraft 调用当前配置的 AI 平台生成草稿正文。
func (s *AIDraftService) GenerateDraft(ctx context.Context, input DraftInput) (DraftResult, error) {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return DraftResult{}, fmt.Errorf("topic is required")
	}

	maxTokens := input.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultDraftMaxTokens
	}

	userPrompt := buildDraftPrompt(topic, input.FocusKeyword, input.Keywords)
	logModelExchange("draft", "prompt", userPrompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: "你是一名资深内容编辑，请围绕给定主题撰写一篇结构完整的长文。请遵循：\n1. 输出 Markdown 正文，包含小标题与分段，不要生成文章主标题。\n2. 正文至少 800 词，围绕核心关键词自然展开，不要堆砌关键词。\n3. 次要关键词在合适的段落中自然出现一到两次。\n4. 语气专业但易读，避免口语化与重复表达。\n5. 只输出正文内容，不要附加任何说明。",
		UserPrompt:   userPrompt,
		MaxTokens:    maxTokens,
		Temperature:  defaultDraftTemperature,
	})
	if err != nil {
		return DraftResult{}, err
	}

	content := strings.TrimSpace(result.Content)
	logModelExchange("draft", "response", content)
	if content == "" {
		return DraftResult{}, ErrDraftEmpty
	}

	return DraftResult{
		Content:          content,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}, nil
}

func buildDraftPrompt(topic, focusKeyword string, keywords []string) string {
	var builder strings.Builder
	builder.WriteString("主题：")
	builder.WriteString(topic)
	builder.WriteString("\n")

	if trimmed := strings.TrimSpace(focusKeyword); trimmed != "" {
		builder.WriteString("核心关键词：")
		builder.WriteString(trimmed)
		builder.WriteString("\n")
	}

	cleaned := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) > 0 {
		builder.WriteString("次要关键词：")
		builder.WriteString(strings.Join(cleaned, "、"))
		builder.WriteString("\n")
	}

	return builder.String()
}
