package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/ticnote/internal/domains/asset"
	"github.com/xpanvictor/ticnote/internal/domains/pipeline"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

const audioField = "audio"

// Ingester stores and processes one uploaded recording.
type Ingester interface {
	Ingest(ctx context.Context, upload pipeline.Upload) (*pipeline.Result, error)
}

// Broadcaster notifies connected listeners about a processed recording.
type Broadcaster interface {
	BroadcastAudioProcessed(ctx context.Context, result *pipeline.Result)
}

// AudioHandler handles recording uploads
type AudioHandler struct {
	ingester    Ingester
	broadcaster Broadcaster
	maxBytes    int64
	logger      *Logger.Logger
}

// NewAudioHandler creates a new audio handler. maxBytes caps the request body.
func NewAudioHandler(ingester Ingester, broadcaster Broadcaster, maxBytes int64, logger *Logger.Logger) *AudioHandler {
	return &AudioHandler{
		ingester:    ingester,
		broadcaster: broadcaster,
		maxBytes:    maxBytes,
		logger:      logger,
	}
}

// Upload handles a recording upload
// @Summary Upload and process a recording
// @Description Store one audio file, transcribe it and summarize the transcription. The result is broadcast to every WebSocket listener.
// @Tags Audio
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param audio formData file true "Audio recording"
// @Success 200 {object} UploadResponse "File processed successfully"
// @Failure 400 {object} ErrorResponse "No file uploaded"
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 500 {object} PartialUploadResponse "Processing failed"
// @Router /api/upload [post]
func (h *AudioHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "File too large"})
			return
		}
		h.logger.Debugf("upload without a readable multipart body: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No file uploaded."})
		return
	}
	defer form.RemoveAll()

	files := form.File[audioField]
	switch {
	case len(files) == 0:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No file uploaded."})
		return
	case len(files) > 1:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Only one audio file is allowed."})
		return
	}

	header := files[0]
	body, err := header.Open()
	if err != nil {
		h.logger.Errorf("open uploaded part %s: %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "File upload failed"})
		return
	}
	defer body.Close()

	h.logger.Infof("received %s (%d bytes) from %s", header.Filename, header.Size, callerName(c))

	result, err := h.ingester.Ingest(c.Request.Context(), pipeline.Upload{
		Body:     body,
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.writeIngestError(c, result, err)
		return
	}

	h.broadcaster.BroadcastAudioProcessed(c.Request.Context(), result)

	c.JSON(http.StatusOK, UploadResponse{
		Message:       "File processed successfully",
		File:          result.File,
		Transcription: result.Transcription,
		Summary:       result.Summary,
	})
}

func (h *AudioHandler) writeIngestError(c *gin.Context, result *pipeline.Result, err error) {
	var stageErr *pipeline.Error
	var storageErr *asset.StorageError

	switch {
	case errors.As(err, &stageErr):
		h.logger.Errorf("processing failed at %s: %v", stageErr.Stage, err)
		if stageErr.Stage == pipeline.StageSummary && result != nil {
			c.JSON(http.StatusInternalServerError, PartialUploadResponse{
				Error:         "Processing failed",
				Stage:         stageErr.Stage,
				File:          result.File,
				Transcription: result.Transcription,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Processing failed"})
	case errors.As(err, &storageErr):
		h.logger.Errorf("storing upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "File upload failed"})
	default:
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "File too large"})
			return
		}
		h.logger.Errorf("upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "File upload failed"})
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	// older multipart readers flatten the error
	return strings.Contains(err.Error(), "request body too large")
}
