package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/SscSPs/procurement_agent/internal/dto"
	"github.com/SscSPs/procurement_agent/internal/middleware"
	"github.com/SscSPs/procurement_agent/internal/utils"
	"github.com/gin-gonic/gin"
)

const fallbackUploadName = "policy.pdf"

// policyHandler handles policy document upload and status requests.
type policyHandler struct {
	policyService portssvc.PolicySvcFacade
	uploadDir     string
}

func newPolicyHandler(ps portssvc.PolicySvcFacade, uploadDir string) *policyHandler {
	return &policyHandler{policyService: ps, uploadDir: uploadDir}
}

func registerPolicyRoutes(r gin.IRoutes, policyService portssvc.PolicySvcFacade, uploadDir string, maxUploadBytes int64) {
	h := newPolicyHandler(policyService, uploadDir)

	r.POST("/upload_pdf", middleware.MaxBodySize(maxUploadBytes), h.uploadPDF)
	r.GET("/get_policy_status", h.getPolicyStatus)
}

func uploadFailure(c *gin.Context, status int, message string) {
	c.JSON(status, dto.UploadResponse{Success: false, Error: message, PolicyLoaded: false})
}

// uploadPDF godoc
// @Summary Upload a procurement policy
// @Description Replaces the live policy index with the uploaded PDF. A failed upload keeps the previous index unless configured otherwise.
// @Tags policy
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Policy document (.pdf)"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.UploadResponse "Missing file or not a PDF"
// @Failure 413 {object} dto.UploadResponse "File too large"
// @Failure 422 {object} dto.UploadResponse "Document could not be read or indexed"
// @Failure 500 {object} dto.UploadResponse "Failed to store or index document"
// @Router /upload_pdf [post]
func (h *policyHandler) uploadPDF(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("Upload exceeds size limit", slog.Int64("limit", tooLarge.Limit))
			uploadFailure(c, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		logger.Warn("No file in upload request", slog.String("error", err.Error()))
		uploadFailure(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if file.Filename == "" {
		uploadFailure(c, http.StatusBadRequest, "No file selected")
		return
	}
	if !utils.HasExtension(file.Filename, ".pdf") {
		logger.Warn("Rejected non-PDF upload", slog.String("filename", file.Filename))
		uploadFailure(c, http.StatusBadRequest, "Invalid file format")
		return
	}

	name := utils.SecureFilename(file.Filename)
	if !utils.HasExtension(name, ".pdf") {
		name = fallbackUploadName
	}
	path := filepath.Join(h.uploadDir, name)
	logger = logger.With(slog.String("document", name))

	if err := c.SaveUploadedFile(file, path); err != nil {
		logger.Error("Failed to store uploaded file", slog.String("error", err.Error()))
		uploadFailure(c, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	status, err := h.policyService.LoadDocument(c.Request.Context(), path, name)
	if err != nil {
		// Nothing references a rejected upload.
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Warn("Failed to remove rejected upload", slog.String("error", rmErr.Error()))
		}
		if errors.Is(err, apperrors.ErrUnsupportedFormat) || errors.Is(err, apperrors.ErrIngestion) {
			logger.Warn("Policy document rejected", slog.String("error", err.Error()))
			uploadFailure(c, http.StatusUnprocessableEntity, err.Error())
		} else {
			logger.Error("Failed to load policy document", slog.String("error", err.Error()))
			uploadFailure(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.Info("Policy document uploaded", slog.Int("chunks", status.ChunkCount))
	c.JSON(http.StatusOK, dto.UploadResponse{
		Success:      true,
		Message:      "Policy document loaded successfully!",
		PolicyLoaded: true,
		Document:     status.DocumentName,
		Chunks:       status.ChunkCount,
	})
}

// getPolicyStatus godoc
// @Summary Policy index status
// @Description Reports whether a policy document is loaded, and which one.
// @Tags policy
// @Produce json
// @Success 200 {object} domain.PolicyStatus
// @Router /get_policy_status [get]
func (h *policyHandler) getPolicyStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.policyService.Status())
}
