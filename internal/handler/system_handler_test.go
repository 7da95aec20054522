package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSystemSettingsRoundTrip(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPut, "/api/settings", map[string]any{
		"siteName":       "My Studio",
		"aiProvider":     "deepseek",
		"deepseekApiKey": "sk-deepseek-test",
	})

	api.UpdateSystemSettings(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/settings", nil)

	api.GetSystemSettings(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response struct {
		SiteName           string `json:"siteName"`
		AIProvider         string `json:"aiProvider"`
		DeepSeekKeyPresent bool   `json:"deepseekKeyPresent"`
		OpenAIKeyPresent   bool   `json:"openaiKeyPresent"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.SiteName != "My Studio" || response.AIProvider != "deepseek" {
		t.Fatalf("unexpected settings: %+v", response)
	}
	if !response.DeepSeekKeyPresent || response.OpenAIKeyPresent {
		t.Fatalf("expected only deepseek key present, got %+v", response)
	}

	// 密钥本身不应出现在响应中
	if strings.Contains(w.Body.String(), "sk-deepseek-test") {
		t.Fatalf("api key leaked in response: %s", w.Body.String())
	}
}
