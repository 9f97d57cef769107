package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/app/services"
	"github.com/evrim/opphub/internal/middleware"
	"github.com/evrim/opphub/internal/pkg/helpers"
)

// SchoolController handles school administration
type SchoolController struct {
	schoolService services.SchoolService
}

// NewSchoolController creates a new SchoolController
func NewSchoolController(schoolService services.SchoolService) *SchoolController {
	return &SchoolController{schoolService: schoolService}
}

// ListSchools retrieves schools
// @Summary List schools
// @Description Retrieves schools ordered by name with optional name search
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name search"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.SchoolListResponse} "Schools retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /schools [get]
func (c *SchoolController) ListSchools(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.schoolService.GetAll(ctx, ctx.Query("search"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list))
}

// GetSchool retrieves a school by ID
// @Summary Get school details
// @Description Retrieves a single school
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SchoolResponse} "School retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /schools/{id} [get]
func (c *SchoolController) GetSchool(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	school, err := c.schoolService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(school))
}

// CreateSchool registers a new school
// @Summary Create a school
// @Description Registers a new school on the platform
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSchoolRequest true "School information"
// @Success 201 {object} dto.APIResponse{data=dto.SchoolResponse} "School created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /schools [post]
func (c *SchoolController) CreateSchool(ctx *gin.Context) {
	var req dto.CreateSchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid school data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	school, err := c.schoolService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(school))
}

// UpdateSchool modifies a school
// @Summary Update a school
// @Description Updates a school's name and branding
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID" Format(int64) minimum(1)
// @Param request body dto.UpdateSchoolRequest true "Updated school information"
// @Success 200 {object} dto.APIResponse{data=dto.SchoolResponse} "School updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /schools/{id} [put]
func (c *SchoolController) UpdateSchool(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid school data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	school, err := c.schoolService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(school))
}

// DeleteSchool removes a school
// @Summary Delete a school
// @Description Removes a school with no remaining users or opportunities
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "School deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Failure 409 {object} dto.ErrorResponse "School still has users or opportunities"
// @Router /schools/{id} [delete]
func (c *SchoolController) DeleteSchool(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.schoolService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("School deleted successfully"))
}
