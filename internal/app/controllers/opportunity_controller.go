package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/evrim/opphub/internal/app/models/dto"
	"github.com/evrim/opphub/internal/app/services"
	"github.com/evrim/opphub/internal/middleware"
)

// OpportunityController handles opportunity CRUD, registrations and
// document attachments.
type OpportunityController struct {
	opportunityService  services.OpportunityService
	registrationService services.RegistrationService
	documentService     services.DocumentService
}

// NewOpportunityController creates a new OpportunityController
func NewOpportunityController(
	opportunityService services.OpportunityService,
	registrationService services.RegistrationService,
	documentService services.DocumentService,
) *OpportunityController {
	return &OpportunityController{
		opportunityService:  opportunityService,
		registrationService: registrationService,
		documentService:     documentService,
	}
}

// ListOpportunities retrieves the opportunities visible to the caller
// @Summary List opportunities
// @Description Retrieves opportunities the caller may see, filtered by their saved preferences when applicable
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search query string false "Free text search on title and description"
// @Param type query string false "Opportunity type" Enums(INTERNSHIP, WORKSHOP, SCHOLARSHIP)
// @Param industry query string false "Industry filter"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.OpportunityListResponse} "Opportunities retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /opportunities [get]
func (c *OpportunityController) ListOpportunities(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var filter dto.OpportunityFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	list, err := c.opportunityService.ListForUser(ctx, user, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list))
}

// GetOpportunity retrieves one opportunity
// @Summary Get opportunity details
// @Description Retrieves a single opportunity with attachments and free spaces
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Opportunity ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.OpportunityResponse} "Opportunity retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Opportunity not found"
// @Router /opportunities/{id} [get]
func (c *OpportunityController) GetOpportunity(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	opp, err := c.opportunityService.GetByID(ctx, user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(opp))
}

// CreateOpportunity creates a new opportunity
// @Summary Create an opportunity
// @Description Creates an opportunity; school and global flags are forced to the caller's scope unless they may edit everything
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateOpportunityRequest true "Opportunity information"
// @Success 201 {object} dto.APIResponse{data=dto.OpportunityResponse} "Opportunity created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Router /opportunities [post]
func (c *OpportunityController) CreateOpportunity(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.CreateOpportunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid opportunity data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	opp, err := c.opportunityService.Create(ctx, user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(opp))
}

// UpdateOpportunity modifies an opportunity
// @Summary Update an opportunity
// @Description Updates an opportunity the caller may mutate; scope changes from narrower roles are dropped
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Opportunity ID" Format(int64) minimum(1)
// @Param request body dto.UpdateOpportunityRequest true "Updated opportunity information"
// @Success 200 {object} dto.APIResponse{data=dto.OpportunityResponse} "Opportunity updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Opportunity not found"
// @Router /opportunities/{id} [put]
func (c *OpportunityController) UpdateOpportunity(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateOpportunityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid opportunity data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	opp, err := c.opportunityService.Update(ctx, user, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(opp))
}

// DeleteOpportunity removes an opportunity
// @Summary Delete an opportunity
// @Description Removes an opportunity the caller may mutate, together with its registrations
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Opportunity ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Opportunity deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Opportunity not found"
// @Router /opportunities/{id} [delete]
func (c *OpportunityController) DeleteOpportunity(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.opportunityService.Delete(ctx, user, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Opportunity deleted successfully"))
}

// RegisterInterest claims a space on an opportunity
// @Summary Register for an opportunity
// @Description Claims one of the opportunity's spaces for the caller; registering twice is a no-op
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Opportunity ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.InterestResponse} "Registered"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Opportunity not visible to caller"
// @Failure 404 {object} dto.ErrorResponse "Opportunity not found"
// @Failure 409 {object} dto.ErrorResponse "No spaces left"
// @Failure 503 {object} dto.ErrorResponse "Temporary storage failure, retry"
// @Router /opportunities/{id}/interest [post]
func (c *OpportunityController) RegisterInterest(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	interest, err := c.registrationService.Register(ctx, user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(interest))
}

// UnregisterInterest releases the caller's space on an opportunity
// @Summary Unregister from an opportunity
// @Description Releases the caller's space; unregistering when not registered is a no-op
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Opportunity ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Unregistered"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Opportunity not found"
// @Router /opportunities/{id}/interest [delete]
func (c *OpportunityController) UnregisterInterest(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.registrationService.Unregister(ctx, user, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Unregistered successfully"))
}

// ListAttendees retrieves the registered students of an opportunity
// @Summary List attendees
// @Description Retrieves the students registered on an opportunity, newest registration first
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Opportunity ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.AttendeeListResponse} "Attendees retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Opportunity not found"
// @Router /opportunities/{id}/attendees [get]
func (c *OpportunityController) ListAttendees(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	attendees, err := c.registrationService.ListAttendees(ctx, user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(attendees))
}

// UploadDocument attaches a document to an opportunity
// @Summary Upload a document
// @Description Attaches an uploaded file to an opportunity the caller may mutate
// @Tags opportunities
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Opportunity ID" Format(int64) minimum(1)
// @Param file formData file true "Document to attach"
// @Success 201 {object} dto.APIResponse{data=dto.FileResponse} "Document attached"
// @Failure 400 {object} dto.ErrorResponse "Invalid or oversized file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Opportunity not found"
// @Router /opportunities/{id}/documents [post]
func (c *OpportunityController) UploadDocument(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "No file provided")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := c.documentService.Attach(ctx, user, id, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(file))
}

// DeleteDocument detaches a document from an opportunity
// @Summary Delete a document
// @Description Removes an attached document from an opportunity the caller may mutate
// @Tags opportunities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Opportunity ID" Format(int64) minimum(1)
// @Param fileId path int true "File ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Document removed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 404 {object} dto.ErrorResponse "Opportunity or document not found"
// @Router /opportunities/{id}/documents/{fileId} [delete]
func (c *OpportunityController) DeleteDocument(ctx *gin.Context) {
	user, ok := middleware.GetUserContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	fileID, ok := parseIDParam(ctx, "fileId")
	if !ok {
		return
	}

	if err := c.documentService.Detach(ctx, user, id, fileID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Document removed successfully"))
}

// parseIDParam parses a positive int64 path parameter, responding with a
// validation error itself when the value is malformed.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		errorDetail = errorDetail.WithDetails("Value must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func respondUnauthenticated(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
