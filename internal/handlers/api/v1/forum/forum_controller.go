// file: internal/handlers/api/v1/forum/forum_controller.go
package forum

import (
	"encoding/json"
	"net/http"
	"strconv"

	"castnfish/internal/contextutils"
	"castnfish/internal/models"
	"castnfish/internal/response"
	"castnfish/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ForumController struct {
	services *services.Collection
	logger   *zap.Logger
	builder  *response.Builder
}

// NewForumController creates a new forum controller
func NewForumController(sc *services.Collection, logger *zap.Logger, builder *response.Builder) *ForumController {
	return &ForumController{services: sc, logger: logger, builder: builder}
}

// CreateTopic opens a new discussion topic
func (c *ForumController) CreateTopic(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	var req services.CreateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = userID

	topic, err := c.services.Forum.CreateTopic(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, topic)
}

// GetTopic returns a topic with its replies
func (c *ForumController) GetTopic(w http.ResponseWriter, r *http.Request) {
	topicID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || topicID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid topic ID", err))
		return
	}

	detail, err := c.services.Forum.GetTopic(r.Context(), topicID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, detail)
}

// ListTopics returns topics, optionally filtered by category
func (c *ForumController) ListTopics(w http.ResponseWriter, r *http.Request) {
	req := &services.ListTopicsRequest{
		Category:   r.URL.Query().Get("category"),
		Pagination: paginationParams(r),
	}

	page, err := c.services.Forum.ListTopics(r.Context(), req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WritePaginated(w, r, page.Items, page.Page, page.PageSize, page.TotalItems)
}

// SearchTopics returns topics matching the query string
func (c *ForumController) SearchTopics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	topics, err := c.services.Forum.SearchTopics(r.Context(), query, limit)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteSuccess(w, r, topics)
}

// CreateReply posts a reply on a topic
func (c *ForumController) CreateReply(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	topicID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || topicID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid topic ID", err))
		return
	}

	var req services.CreateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = userID
	req.TopicID = topicID

	reply, err := c.services.Forum.CreateReply(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteCreated(w, r, reply)
}

// MarkHelpful records a helpful vote on a reply
func (c *ForumController) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())
	if userID == 0 {
		c.builder.WriteUnauthorized(w, r, "user not authenticated")
		return
	}

	replyID, err := strconv.ParseInt(chi.URLParam(r, "replyID"), 10, 64)
	if err != nil || replyID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid reply ID", err))
		return
	}

	if err := c.services.Forum.MarkHelpful(r.Context(), replyID, userID); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}
	c.builder.WriteNoContent(w, r)
}

func paginationParams(r *http.Request) models.PaginationParams {
	params := models.PaginationParams{}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		params.PageSize = size
	}
	params.Normalize()
	return params
}
