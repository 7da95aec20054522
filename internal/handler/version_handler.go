package handler

import (
	"net/http"

	"github.com/draftsmith/internal/service"
	"github.com/gin-gonic/gin"
)

type createVersionPayload struct {
	BranchName    string `json:"branchName"`
	CreateBranch  bool   `json:"createBranch"`
	FromVersionID *uint  `json:"fromVersionId"`
	ChangeSummary string `json:"changeSummary"`
}

type rollbackPayload struct {
	TargetVersionID uint   `json:"targetVersionId"`
	CreateBranch    bool   `json:"createBranch"`
	BranchName      string `json:"branchName"`
	PreserveCurrent bool   `json:"preserveCurrent"`
}

type mergePayload struct {
	SourceBranchID uint   `json:"sourceBranchId"`
	TargetBranchID uint   `json:"targetBranchId"`
	Message        string `json:"message"`
}

// CreateVersion 为文档当前内容追加一个不可变版本快照。
func (a *API) CreateVersion(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload createVersionPayload
	if !bindJSON(c, &payload, "invalid version payload") {
		return
	}

	document, err := a.documents.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	version, err := a.versions.CreateVersion(id, service.ContentSnapshot{
		Title:           document.Title,
		Content:         document.Content,
		MetaDescription: document.MetaDescription,
		Excerpt:         document.Excerpt,
		Status:          document.Status,
		FocusKeyword:    document.FocusKeyword,
		Keywords:        document.KeywordList(),
	}, service.VersionOptions{
		BranchName:    payload.BranchName,
		CreateBranch:  payload.CreateBranch,
		FromVersionID: payload.FromVersionID,
		ChangeSummary: payload.ChangeSummary,
		CreatedBy:     currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"version": version})
}

// ListVersions 返回文档的版本历史，可按分支名过滤。
func (a *API) ListVersions(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	versions, err := a.versions.ListVersions(id, c.Query("branch"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"versions": versions})
}

// GetVersion 获取单个版本快照。
func (a *API) GetVersion(c *gin.Context) {
	id, err := parseUintParam(c, "versionId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	version, err := a.versions.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"version": version})
}

// CompareVersions 比较两个版本并返回字段差异与相似度。
func (a *API) CompareVersions(c *gin.Context) {
	fromID, err := parseUintParam(c, "versionId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	toID, err := parseUintParam(c, "toId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comparison, err := a.comparisons.Compare(fromID, toID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	diffSummary, err := service.ParseDiffSummary(comparison)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to decode comparison")
		return
	}
	changedFields, err := service.ParseChangedFields(comparison)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to decode comparison")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comparison":    comparison,
		"diffSummary":   diffSummary,
		"changedFields": changedFields,
	})
}

// RollbackVersion 将文档回滚到指定的历史版本。
func (a *API) RollbackVersion(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload rollbackPayload
	if !bindJSON(c, &payload, "invalid rollback payload") {
		return
	}

	version, err := a.history.RollbackToVersion(id, payload.TargetVersionID, service.RollbackOptions{
		CreateBranch:    payload.CreateBranch,
		BranchName:      payload.BranchName,
		PreserveCurrent: payload.PreserveCurrent,
		CreatedBy:       currentUserID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"version": version})
}

// MergeBranches 将源分支的最新内容合并进目标分支。
func (a *API) MergeBranches(c *gin.Context) {
	var payload mergePayload
	if !bindJSON(c, &payload, "invalid merge payload") {
		return
	}

	version, err := a.history.MergeBranches(payload.SourceBranchID, payload.TargetBranchID, payload.Message, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"version": version})
}

// ListBranches 返回文档下的全部分支。
func (a *API) ListBranches(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	branches, err := a.branches.List(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"branches": branches})
}
