package handler

import (
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ashboi005/insight-ai/errors"
	taskdto "github.com/ashboi005/insight-ai/internal/adapter/dto/task"
	transcriptdto "github.com/ashboi005/insight-ai/internal/adapter/dto/transcript"
	"github.com/ashboi005/insight-ai/internal/usecase/transcript"
)

// maxUploadSize caps transcript file uploads at 10 MiB
const maxUploadSize = 10 << 20

// Transcript handles transcript HTTP requests
type Transcript struct {
	service *transcript.Service
	logger  *zap.Logger
}

// NewTranscript creates a new transcript handler
func NewTranscript(service *transcript.Service, logger *zap.Logger) *Transcript {
	return &Transcript{
		service: service,
		logger:  logger,
	}
}

// Create stores a transcript from raw text and runs AI enrichment
// POST /v1/transcripts
func (h *Transcript) Create(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := currentUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req transcriptdto.CreateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.service.Create(ctx, user.ID, req.Title, req.Content)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleCreated(h.logger, c, transcriptdto.NewDetailResponse(result.Transcript, result.Tasks, true))
}

// Upload stores a transcript from an uploaded text file
// POST /v1/transcripts/upload
func (h *Transcript) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := currentUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("file is required"))
	}
	if fileHeader.Size > maxUploadSize {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("file exceeds maximum size"))
	}

	title := c.FormValue("title")
	if title == "" {
		title = fileHeader.Filename
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	if !utf8.Valid(content) {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("file must be UTF-8 encoded text"))
	}

	result, err := h.service.Upload(ctx, user.ID, title, fileHeader.Filename, content)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleCreated(h.logger, c, transcriptdto.NewDetailResponse(result.Transcript, result.Tasks, false))
}

// List returns transcripts, optionally scoped to the current user
// GET /v1/transcripts
func (h *Transcript) List(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := currentUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req transcriptdto.ListRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	var userID *uuid.UUID
	if req.Mine {
		userID = &user.ID
	}

	transcripts, err := h.service.List(ctx, userID, req.Limit, req.Offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, transcriptdto.NewResponseList(transcripts))
}

// Get returns a transcript with its tasks
// GET /v1/transcripts/:id
func (h *Transcript) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid transcript ID"))
	}

	result, err := h.service.Get(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, transcriptdto.NewDetailResponse(result.Transcript, result.Tasks, true))
}

// Update edits a transcript's title or content
// PUT /v1/transcripts/:id
func (h *Transcript) Update(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := currentUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid transcript ID"))
	}

	var req transcriptdto.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	updated, err := h.service.Update(ctx, id, user, transcript.UpdateInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, transcriptdto.NewResponse(updated, false))
}

// Tasks returns the tasks derived from a transcript
// GET /v1/transcripts/:id/tasks
func (h *Transcript) Tasks(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid transcript ID"))
	}

	tasks, err := h.service.Tasks(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, taskdto.NewResponseList(tasks))
}

// GenerateTasks re-runs AI extraction for a transcript
// POST /v1/transcripts/:id/generate-tasks
func (h *Transcript) GenerateTasks(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid transcript ID"))
	}

	result, err := h.service.GenerateTasks(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, transcriptdto.NewDetailResponse(result.Transcript, result.Tasks, false))
}

// Download streams the archived transcript file
// GET /v1/transcripts/:id/download
func (h *Transcript) Download(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid transcript ID"))
	}

	content, filename, err := h.service.Download(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

// DownloadURL returns a presigned link to the archived transcript file
// GET /v1/transcripts/:id/download-url
func (h *Transcript) DownloadURL(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid transcript ID"))
	}

	url, expiry, err := h.service.DownloadURL(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"url":        url,
		"expires_in": int(expiry.Seconds()),
	})
}

// Delete removes a transcript with its tasks and archived file
// DELETE /v1/transcripts/:id
func (h *Transcript) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := currentUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid transcript ID"))
	}

	if err := h.service.Delete(ctx, id, user); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"message": "Transcript deleted"})
}
