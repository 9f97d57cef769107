package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/app/services"
	"github.com/evrim/opphub/internal/middleware"
	"github.com/evrim/opphub/internal/pkg/helpers"
)

// NewsController handles the school news board
type NewsController struct {
	newsService services.NewsService
}

// NewNewsController creates a new NewsController
func NewNewsController(newsService services.NewsService) *NewsController {
	return &NewsController{newsService: newsService}
}

// ListNews retrieves news posts for the caller's school
// @Summary List news
// @Description Retrieves the caller's school news together with platform-wide announcements, newest first
// @Tags news
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.NewsListResponse} "News retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /news [get]
func (c *NewsController) ListNews(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.newsService.List(ctx, user, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list))
}

// CreateNews posts news
// @Summary Post news
// @Description Posts news to the caller's school, or platform-wide for unattached news managers
// @Tags news
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNewsRequest true "News post"
// @Success 201 {object} dto.APIResponse{data=dto.NewsResponse} "News posted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /news [post]
func (c *NewsController) CreateNews(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.CreateNewsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid news data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	post, err := c.newsService.Create(ctx, user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post))
}

// DeleteNews removes a news post
// @Summary Delete news
// @Description Removes a news post belonging to the caller's school
// @Tags news
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "News post ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "News deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "News post not found"
// @Router /news/{id} [delete]
func (c *NewsController) DeleteNews(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.newsService.Delete(ctx, user, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("News post deleted successfully"))
}
