package handler

import (
	"errors"
	"net/http"

	"github.com/draftsmith/internal/service"
	"github.com/gin-gonic/gin"
)

type draftPayload struct {
	Topic        string   `json:"topic"`
	FocusKeyword string   `json:"focusKeyword"`
	Keywords     []string `json:"keywords"`
	MaxTokens    int      `json:"maxTokens"`
}

type metadataPayload struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	FocusKeyword string `json:"focusKeyword"`
	MaxTokens    int    `json:"maxTokens"`
}

// GenerateDraft 调用 AI 服务生成长文草稿。
func (a *API) GenerateDraft(c *gin.Context) {
	var payload draftPayload
	if !bindJSON(c, &payload, "invalid draft payload") {
		return
	}

	result, err := a.drafter.GenerateDraft(c.Request.Context(), service.DraftInput{
		Topic:        payload.Topic,
		FocusKeyword: payload.FocusKeyword,
		Keywords:     payload.Keywords,
		MaxTokens:    payload.MaxTokens,
	})
	if err != nil {
		respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content":          result.Content,
		"promptTokens":     result.PromptTokens,
		"completionTokens": result.CompletionTokens,
	})
}

// GenerateMetadata 调用 AI 服务为正文生成元描述与摘要。
func (a *API) GenerateMetadata(c *gin.Context) {
	var payload metadataPayload
	if !bindJSON(c, &payload, "invalid metadata payload") {
		return
	}

	result, err := a.metaGen.GenerateMetadata(c.Request.Context(), service.MetaInput{
		Title:        payload.Title,
		Content:      payload.Content,
		FocusKeyword: payload.FocusKeyword,
		MaxTokens:    payload.MaxTokens,
	})
	if err != nil {
		respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metaDescription":  result.MetaDescription,
		"excerpt":          result.Excerpt,
		"promptTokens":     result.PromptTokens,
		"completionTokens": result.CompletionTokens,
	})
}

func respondAIError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAIAPIKeyMissing) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondError(c, http.StatusBadGateway, err.Error())
}
