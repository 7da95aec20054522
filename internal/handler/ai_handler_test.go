package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/draftsmith/internal/service"
	"github.com/gin-gonic/gin"
)

type fakeDrafter struct {
	content   string
	err       error
	calls     int
	lastInput service.DraftInput
}

func (f *fakeDrafter) GenerateDraft(ctx context.Context, input service.DraftInput) (service.DraftResult, error) {
	f.calls++
	f.lastInput = input
	if f.err != nil {
		return service.DraftResult{}, f.err
	}
	return service.DraftResult{Content: f.content, PromptTokens: 12, CompletionTokens: 34}, nil
}

type fakeMetaGenerator struct {
	metaDescription string
	excerpt         string
	err             error
	calls           int
}

func (f *fakeMetaGenerator) GenerateMetadata(ctx context.Context, input service.MetaInput) (service.MetaResult, error) {
	f.calls++
	if f.err != nil {
		return service.MetaResult{}, f.err
	}
	return service.MetaResult{MetaDescription: f.metaDescription, Excerpt: f.excerpt}, nil
}

func TestGenerateDraftEndpoint(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	stub := &fakeDrafter{content: "# 草稿\n\n正文内容。"}
	api.drafter = stub

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/ai/draft", map[string]any{
		"topic":        "远程协作",
		"focusKeyword": "协作",
		"keywords":     []string{"远程", "团队"},
	})

	api.GenerateDraft(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.calls != 1 {
		t.Fatalf("expected drafter to be called once, got %d", stub.calls)
	}
	if stub.lastInput.Topic != "远程协作" || stub.lastInput.FocusKeyword != "协作" {
		t.Fatalf("unexpected drafter input: %+v", stub.lastInput)
	}

	var response struct {
		Content          string `json:"content"`
		CompletionTokens int    `json:"completionTokens"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Content != stub.content || response.CompletionTokens != 34 {
		t.Fatalf("unexpected response: %+v", response)
	}
}

func TestGenerateDraftMissingAPIKey(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	api.drafter = &fakeDrafter{err: service.ErrAIAPIKeyMissing}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/ai/draft", map[string]any{"topic": "x"})

	api.GenerateDraft(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGenerateDraftUpstreamFailure(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	api.drafter = &fakeDrafter{err: errors.New("model unavailable")}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/ai/draft", map[string]any{"topic": "x"})

	api.GenerateDraft(c)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
}

func TestGenerateMetadataEndpoint(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	stub := &fakeMetaGenerator{metaDescription: "一段用于搜索结果的描述。", excerpt: "一段列表页摘要。"}
	api.metaGen = stub

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/ai/metadata", map[string]any{
		"title":   "标题",
		"content": "正文内容，足够生成摘要。",
	})

	api.GenerateMetadata(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.calls != 1 {
		t.Fatalf("expected generator to be called once, got %d", stub.calls)
	}

	var response struct {
		MetaDescription string `json:"metaDescription"`
		Excerpt         string `json:"excerpt"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.MetaDescription != stub.metaDescription || response.Excerpt != stub.excerpt {
		t.Fatalf("unexpected response: %+v", response)
	}
}
