package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/research-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
)

const mimeMultipart = "multipart/form-data"

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/research").
			To(handler.Research).
			Doc("Research a question with web search, stored documents and an executive summary").
			Metadata(restfulspec.KeyOpenAPITags, []string{"research"}).
			Reads(models.ResearchRequest{}).
			Writes(models.ResearchResponse{}).
			Returns(200, "OK", models.ResearchResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/ingest").
			To(handler.Ingest).
			Consumes(mimeMultipart).
			Doc("Ingest an uploaded PDF or text file").
			Metadata(restfulspec.KeyOpenAPITags, []string{"ingest"}).
			Param(ws.FormParameter("file", "PDF, TXT or MD file").DataType("file").Required(true)).
			Param(ws.FormParameter("metadata", "JSON object stored with every chunk").DataType("string").Required(false)).
			Writes(models.IngestResult{}).
			Returns(200, "OK", models.IngestResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(413, "Request Entity Too Large", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/ingest/text").
			To(handler.IngestText).
			Doc("Ingest a text document").
			Metadata(restfulspec.KeyOpenAPITags, []string{"ingest"}).
			Reads(models.Document{}).
			Writes(models.IngestResult{}).
			Returns(200, "OK", models.IngestResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
