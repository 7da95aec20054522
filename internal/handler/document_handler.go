package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/draftsmith/internal/service"
	"github.com/gin-gonic/gin"
)

type documentPayload struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	MetaDescription string   `json:"metaDescription"`
	Excerpt         string   `json:"excerpt"`
	Status          string   `json:"status"`
	FocusKeyword    string   `json:"focusKeyword"`
	Keywords        []string `json:"keywords"`
}

func (p documentPayload) toInput(userID uint) service.DocumentInput {
	return service.DocumentInput{
		Title:           p.Title,
		Content:         p.Content,
		MetaDescription: p.MetaDescription,
		Excerpt:         p.Excerpt,
		Status:          p.Status,
		FocusKeyword:    p.FocusKeyword,
		Keywords:        p.Keywords,
		UserID:          userID,
	}
}

// ListDocuments 获取文档列表，支持搜索、状态过滤与分页。
func (a *API) ListDocuments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	result, err := a.documents.List(service.DocumentFilter{
		Search:  c.Query("search"),
		Status:  c.Query("status"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list documents")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents":      result.Documents,
		"total":          result.Total,
		"totalPages":     result.TotalPages,
		"page":           result.Page,
		"perPage":        result.PerPage,
		"publishedCount": result.PublishedCount,
		"draftCount":     result.DraftCount,
	})
}

// GetDocument 获取单个文档。
func (a *API) GetDocument(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	document, err := a.documents.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": document})
}

// CreateDocument 创建新文档。
func (a *API) CreateDocument(c *gin.Context) {
	var payload documentPayload
	if !bindJSON(c, &payload, "invalid document payload") {
		return
	}

	document, err := a.documents.Create(payload.toInput(currentUserID(c)))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create document")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": document})
}

// UpdateDocument 更新文档 head 字段。
func (a *API) UpdateDocument(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload documentPayload
	if !bindJSON(c, &payload, "invalid document payload") {
		return
	}

	document, err := a.documents.Update(id, payload.toInput(currentUserID(c)))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": document})
}

// DeleteDocument 删除文档。
func (a *API) DeleteDocument(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.documents.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// PreviewDocument 将文档正文渲染为净化后的 HTML 预览。
func (a *API) PreviewDocument(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	document, err := a.documents.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load document")
		return
	}

	rendered, err := renderMarkdown(document.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render preview")
		return
	}

	c.JSON(http.StatusOK, gin.H{"html": rendered})
}
