package handler

import (
	"net/http"

	"github.com/draftsmith/internal/service"
	"github.com/gin-gonic/gin"
)

type systemSettingsPayload struct {
	SiteName       string `json:"siteName"`
	AIProvider     string `json:"aiProvider"`
	OpenAIAPIKey   string `json:"openaiApiKey"`
	DeepSeekAPIKey string `json:"deepseekApiKey"`
}

// GetSystemSettings 返回系统设置，密钥仅透出是否已配置。
func (a *API) GetSystemSettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"siteName":           settings.SiteName,
		"aiProvider":         settings.AIProvider,
		"openaiKeyPresent":   settings.OpenAIAPIKey != "",
		"deepseekKeyPresent": settings.DeepSeekAPIKey != "",
	})
}

// UpdateSystemSettings 更新系统设置。
func (a *API) UpdateSystemSettings(c *gin.Context) {
	var payload systemSettingsPayload
	if !bindJSON(c, &payload, "invalid settings payload") {
		return
	}

	settings, err := a.system.UpdateSettings(service.SystemSettingsInput{
		SiteName:       payload.SiteName,
		AIProvider:     payload.AIProvider,
		OpenAIAPIKey:   payload.OpenAIAPIKey,
		DeepSeekAPIKey: payload.DeepSeekAPIKey,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"siteName":   settings.SiteName,
		"aiProvider": settings.AIProvider,
	})
}
