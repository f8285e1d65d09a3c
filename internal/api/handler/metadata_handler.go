package handler

import (
	"github.com/gin-gonic/gin"

	"migration-console/internal/service"
	"migration-console/pkg/responses"
)

type MetadataHandler struct {
	metadataService service.MetadataService
}

func NewMetadataHandler(metadataService service.MetadataService) *MetadataHandler {
	return &MetadataHandler{metadataService: metadataService}
}

// Get 后端元数据
// @Summary 元数据
// @Tags Metadata
// @Produce json
// @Success 200 {object} responses.Response
// @Router /api/v1/metadata [get]
func (h *MetadataHandler) Get(c *gin.Context) {
	md, err := h.metadataService.Get(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, md)
}

// Settings 后端配置项
// @Summary 后端配置项
// @Tags Metadata
// @Produce json
// @Success 200 {object} responses.Response
// @Router /api/v1/metadata/settings [get]
func (h *MetadataHandler) Settings(c *gin.Context) {
	settings, err := h.metadataService.Settings(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, settings)
}

// WaveSteps 各操作类型的步骤
// @Summary 波次操作步骤
// @Tags Metadata
// @Produce json
// @Success 200 {object} responses.Response{data=[]model.WaveStep}
// @Router /api/v1/metadata/wave-steps [get]
func (h *MetadataHandler) WaveSteps(c *gin.Context) {
	steps, err := h.metadataService.WaveSteps(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, steps)
}
