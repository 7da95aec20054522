package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/draftsmith/internal/service"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// respondServiceError 将服务层的类型化错误映射为对应的 HTTP 状态码。
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, service.ErrVersionNotFound),
		errors.Is(err, service.ErrBranchNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrVersionMismatch),
		errors.Is(err, service.ErrBranchMismatch):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBranchAlreadyMerged),
		errors.Is(err, service.ErrBranchEmpty):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
