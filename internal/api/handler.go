package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fundlens/fundlens/internal/dataset"
	"github.com/fundlens/fundlens/internal/domain/dto"
	"github.com/fundlens/fundlens/internal/service"
)

// Handler provides HTTP handlers for the chat endpoints.
//
// Responsibilities:
//   - Validate incoming request bodies
//   - Delegate to the chat service for plan/execute/explain
//   - Translate results into response DTOs with appropriate status codes
//
// svc is nil when the chatbot could not be initialized (missing API
// credential); chat endpoints then degrade to 503.
type Handler struct {
	svc       service.ChatService
	store     *dataset.Store
	indexFile string
}

// NewHandler constructs a Handler. svc may be nil for degraded mode.
func NewHandler(svc service.ChatService, store *dataset.Store, indexFile string) *Handler {
	return &Handler{svc: svc, store: store, indexFile: indexFile}
}

// Chat handles POST /api/chat requests.
//
// Chat godoc
// @Summary      Ask a question about the datasets
// @Description  Translates the question into a query plan, executes it against the loaded CSV tables and returns a natural-language answer
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ChatRequest  true  "Question"
// @Success      200      {object}  dto.ChatResponse   "Answer"
// @Failure      400      {object}  dto.ErrorResponse  "Empty question"
// @Failure      503      {object}  dto.ErrorResponse  "Chatbot not initialized"
// @Router       /api/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	if h.svc == nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("chatbot not initialized, check API credential and data files", nil))
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("question cannot be empty", nil))
		return
	}

	answer, err := h.svc.Answer(c.Request.Context(), question)
	if err != nil {
		c.JSON(http.StatusOK, dto.ChatResponse{
			Answer:  "Error processing question: " + err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{Answer: answer, Success: true})
}

// Columns handles GET /api/columns requests.
//
// Columns godoc
// @Summary      List available columns
// @Description  Returns the column names of every loaded CSV table
// @Tags         chat
// @Produce      json
// @Success      200  {object}  dto.ColumnsResponse  "Columns per table"
// @Failure      503  {object}  dto.ErrorResponse    "Chatbot not initialized"
// @Router       /api/columns [get]
func (h *Handler) Columns(c *gin.Context) {
	if h.svc == nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("chatbot not initialized", nil))
		return
	}

	c.JSON(http.StatusOK, dto.ColumnsResponse{Columns: h.store.Columns()})
}

// Index serves the static chat page at GET /.
func (h *Handler) Index(c *gin.Context) {
	page, err := os.ReadFile(h.indexFile)
	if err != nil {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte("<h1>Error: index.html not found</h1>"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
