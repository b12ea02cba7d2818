package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Velmurugan2695/document-question-answer/internal/helper"
	"github.com/Velmurugan2695/document-question-answer/internal/models"
	"github.com/Velmurugan2695/document-question-answer/internal/parser"
	"github.com/Velmurugan2695/document-question-answer/internal/rag"
	"github.com/Velmurugan2695/document-question-answer/internal/render"
)

// Answerer is the question answering pipeline behind the handlers.
type Answerer interface {
	Ask(ctx context.Context, filename string, file io.Reader, questionInput string, opts rag.Options) (models.AnswerMap, error)
	AskQuestions(ctx context.Context, filename string, file io.Reader, questions []string, opts rag.Options) (models.AnswerMap, error)
}

type Handler struct {
	answerer       Answerer
	httpClient     *http.Client
	maxUploadBytes int64
}

func NewHandler(answerer Answerer, httpClient *http.Client, maxUploadBytes int64) *Handler {
	return &Handler{
		answerer:       answerer,
		httpClient:     httpClient,
		maxUploadBytes: maxUploadBytes,
	}
}

// Form serves the upload form.
func (h *Handler) Form(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(formPage))
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ask answers the questions of a multipart upload.
func (h *Handler) Ask(c *gin.Context) {
	logger := log.Ctx(c.Request.Context())

	fh, err := c.FormFile("file")
	if err != nil {
		if status := statusFor(err); status == http.StatusRequestEntityTooLarge {
			h.fail(c, status, err)
			return
		}
		h.fail(c, http.StatusBadRequest, errors.New("file is required"))
		return
	}
	question := c.PostForm("question")

	opts, err := optionsFromForm(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	logger.Info().Str("filename", fh.Filename).Int64("size", fh.Size).Msg("Received document")

	answers, err := h.answerer.Ask(c.Request.Context(), fh.Filename, f, question, opts)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	if c.Query("format") == "json" || c.PostForm("format") == "json" ||
		c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, answers)
		return
	}

	body, err := render.HTML(answers)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(resultPageHead+body+resultPageTail))
}

type runRequest struct {
	Documents string   `json:"documents" binding:"required"`
	Questions []string `json:"questions" binding:"required"`
	Model     string   `json:"model"`
	Strategy  string   `json:"strategy"`
	TopK      int      `json:"top_k"`
	ChunkSize int      `json:"chunk_size"`
	Overlap   *int     `json:"overlap"`
}

// Run is the batch interface: the document is fetched from a URL and the
// questions arrive already split.
func (h *Handler) Run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	filename, data, err := helper.FetchDocument(c.Request.Context(), h.httpClient, req.Documents, h.maxUploadBytes)
	if err != nil {
		h.fail(c, http.StatusBadGateway, err)
		return
	}
	log.Ctx(c.Request.Context()).Info().Str("filename", filename).Int("size", len(data)).Msg("Fetched document")

	answers, err := h.answerer.AskQuestions(c.Request.Context(), filename, bytes.NewReader(data), req.Questions, rag.Options{
		Model:     req.Model,
		Strategy:  req.Strategy,
		TopK:      req.TopK,
		ChunkSize: req.ChunkSize,
		Overlap:   req.Overlap,
	})
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (h *Handler) fail(c *gin.Context, status int, err error) {
	logger := log.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("Request failed")
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("Request rejected")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var (
		formatErr  *parser.UnsupportedFormatError
		contentErr *parser.UnsupportedContentError
		chunkErr   *parser.InvalidChunkConfigError
		sizeErr    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &formatErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &contentErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &chunkErr), errors.Is(err, rag.ErrInvalidOption):
		return http.StatusBadRequest
	case errors.As(err, &sizeErr):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func optionsFromForm(c *gin.Context) (rag.Options, error) {
	opts := rag.Options{
		Model:    c.PostForm("model"),
		Strategy: c.PostForm("strategy"),
	}
	var err error
	if opts.TopK, err = intField(c, "top_k"); err != nil {
		return opts, err
	}
	if opts.ChunkSize, err = intField(c, "chunk_size"); err != nil {
		return opts, err
	}
	if v := c.PostForm("overlap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("overlap must be an integer")
		}
		opts.Overlap = &n
	}
	return opts, nil
}

func intField(c *gin.Context, name string) (int, error) {
	v := c.PostForm(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}
