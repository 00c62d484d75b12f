package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/research-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/research-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/research-agent/internal/ingestion"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/rs/zerolog"
)

const DefaultMaxUploadBytes = 32 << 20

// Researcher answers a research request.
type Researcher interface {
	Run(ctx context.Context, req models.ResearchRequest) models.ResearchResponse
}

type QueryValidator interface {
	ValidateQuery(ctx context.Context, query string) guardrails.ValidationResult
}

type Ingester interface {
	IngestFile(ctx context.Context, filename string, data []byte, rawMetadata string) (models.IngestResult, error)
	IngestDocument(ctx context.Context, doc models.Document) (models.IngestResult, error)
}

type Handler struct {
	researcher     Researcher
	validator      QueryValidator
	ingester       Ingester
	ragConfigured  bool
	maxUploadBytes int64
	logger         *zerolog.Logger
}

func NewHandler(
	researcher Researcher,
	validator QueryValidator,
	ingester Ingester,
	ragConfigured bool,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		researcher:     researcher,
		validator:      validator,
		ingester:       ingester,
		ragConfigured:  ragConfigured,
		maxUploadBytes: DefaultMaxUploadBytes,
		logger:         logger,
	}
}

// WithMaxUploadBytes overrides the multipart upload ceiling; non-positive
// values are ignored.
func (h *Handler) WithMaxUploadBytes(limit int64) *Handler {
	if limit > 0 {
		h.maxUploadBytes = limit
	}
	return h
}

// Research handles POST /api/v1/research
func (h *Handler) Research(req *restful.Request, resp *restful.Response) {
	var researchRequest models.ResearchRequest
	if err := req.ReadEntity(&researchRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	researchRequest.SetDefaults()
	if err := researchRequest.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	ctx := req.Request.Context()

	validation := h.validator.ValidateQuery(ctx, researchRequest.Query)
	if !validation.IsValid {
		h.logger.Warn().
			Str("category", validation.Category).
			Str("method", validation.Method).
			Msg("Research query rejected")
		middleware.HandleError(resp, errors.New(validation.Reason), http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Int("max_web_results", researchRequest.MaxWebResults).
		Int("max_rag_chunks", researchRequest.MaxRAGChunks).
		Msg("Process research request")

	researchResponse := h.researcher.Run(ctx, researchRequest)

	resp.WriteHeaderAndEntity(http.StatusOK, researchResponse)
}

// Ingest handles POST /api/v1/ingest (multipart: file, metadata)
func (h *Handler) Ingest(req *restful.Request, resp *restful.Response) {
	httpReq := req.Request
	httpReq.Body = http.MaxBytesReader(resp.ResponseWriter, httpReq.Body, h.maxUploadBytes)

	if err := httpReq.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			middleware.HandleError(resp, middleware.ErrUploadTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	file, header, err := httpReq.FormFile("file")
	if err != nil {
		middleware.HandleError(resp, middleware.ErrMissingFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	result, err := h.ingester.IngestFile(httpReq.Context(), header.Filename, data, httpReq.FormValue("metadata"))
	if err != nil {
		h.logger.Error().Err(err).Str("file", header.Filename).Msg("Failed to ingest file")
		middleware.HandleError(resp, err, ingestStatus(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// IngestText handles POST /api/v1/ingest/text
func (h *Handler) IngestText(req *restful.Request, resp *restful.Response) {
	var doc models.Document
	if err := req.ReadEntity(&doc); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	result, err := h.ingester.IngestDocument(req.Request.Context(), doc)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to ingest document")
		middleware.HandleError(resp, err, ingestStatus(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:        "ok",
		Version:       "1.0.0",
		RAGConfigured: h.ragConfigured,
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

func ingestStatus(err error) int {
	if errors.Is(err, ingestion.ErrInvalidInput) || errors.Is(err, models.ErrEmptyDocumentText) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
