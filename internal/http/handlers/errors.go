package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/seobrain/internal/http/response"
	"github.com/yungbote/seobrain/internal/modules/seo/campaign"
	"github.com/yungbote/seobrain/internal/modules/seo/content"
	"github.com/yungbote/seobrain/internal/modules/seo/improver"
	"github.com/yungbote/seobrain/internal/modules/seo/winners"
	"github.com/yungbote/seobrain/internal/platform/apierr"
)

// classify maps domain errors onto API errors.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, campaign.ErrCampaignNotFound), errors.Is(err, winners.ErrCampaignNotFound):
		return apierr.NotFound("campaign_not_found", err)
	case errors.Is(err, improver.ErrPageNotFound):
		return apierr.NotFound("page_not_found", err)
	case errors.Is(err, improver.ErrPlanNotFound):
		return apierr.NotFound("plan_not_found", err)
	case errors.Is(err, winners.ErrPatternNotFound):
		return apierr.NotFound("pattern_not_found", err)
	case errors.Is(err, improver.ErrUnknownOption):
		return apierr.BadRequest("unknown_option", err)
	case errors.Is(err, improver.ErrPlanNotProposed):
		return apierr.Conflict("plan_not_proposed", err)
	case errors.Is(err, campaign.ErrAlreadyRunning):
		return apierr.Conflict("campaign_running", err)
	case content.IsValidationError(err):
		return apierr.New(http.StatusBadGateway, "model_output_invalid", err)
	}
	return err
}

func respond(c *gin.Context, err error) {
	response.RespondAPIError(c, classify(err))
}

func pathUUID(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return false
	}
	return true
}
