package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	apiapplicants "github.com/openadmit/openadmit/pkg/api/types/applicants"
	bindapplicants "github.com/openadmit/openadmit/pkg/api-types-binding/applicants"
	binderr "github.com/openadmit/openadmit/pkg/api-types-binding/errors"
	"github.com/openadmit/openadmit/pkg/auth"
	"github.com/openadmit/openadmit/pkg/domain"
	applicantdb "github.com/openadmit/openadmit/pkg/domain/applicant/db"
	"github.com/openadmit/openadmit/pkg/domain/bulk"
	"github.com/openadmit/openadmit/pkg/domain/conversion"
	pipelinedb "github.com/openadmit/openadmit/pkg/domain/pipeline/db"
	"github.com/openadmit/openadmit/pkg/utils/slices"
	astrings "github.com/openadmit/openadmit/pkg/utils/strings"
)

func asProfile(p apiapplicants.Profile) domain.Profile {
	profile := domain.Profile{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: p.Address,
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Time()
		profile.DateOfBirth = &dob
	}
	return profile
}

// alertOf derives the stage alert of an applicant against its
// pipeline's effective stage timeout. Non-active applicants do not
// accumulate stage time, so they never alert.
func alertOf(
	a domain.ApplicantBody, pipelines map[string]domain.Pipeline, now time.Time,
) domain.AlertLevel {
	if a.Status != domain.Active {
		return domain.AlertNormal
	}
	pipeline, ok := pipelines[a.PipelineId]
	if !ok {
		return domain.AlertNormal
	}
	stage, ok := slices.First(
		pipeline.Stages,
		func(s domain.Stage) bool { return s.Id == a.CurrentStageId },
	)
	if !ok {
		return domain.AlertNormal
	}
	return domain.StageAlert(now, a.StageEnteredAt, stage.EffectiveTimeoutDays(pipeline.PipelineBody))
}

func pipelinesOf(
	ctx context.Context, dbpipeline pipelinedb.Interface, applicants []domain.ApplicantBody,
) (map[string]domain.Pipeline, error) {
	ids := map[string]struct{}{}
	for _, a := range applicants {
		ids[a.PipelineId] = struct{}{}
	}
	return dbpipeline.Get(ctx, slices.KeysOf(ids))
}

func ApplicantRegisterHandler(
	dbapplicant applicantdb.Interface, dbpipeline pipelinedb.Interface,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		specInReq := new(apiapplicants.ApplicantSpec)
		if err := json.NewDecoder(c.Request().Body).Decode(specInReq); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}
		if specInReq.PipelineId == "" {
			return binderr.BadRequest("pipeline_id is required", nil)
		}
		if specInReq.Name == "" || specInReq.Email == "" {
			return binderr.BadRequest("name and email are required", nil)
		}
		membershipType, err := domain.AsMembershipType(specInReq.TargetMembershipType)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}

		applicantId, err := dbapplicant.New(ctx, domain.ApplicantSpec{
			PipelineId:           specInReq.PipelineId,
			Profile:              asProfile(specInReq.Profile),
			TargetMembershipType: membershipType,
			TargetRoleId:         specInReq.TargetRoleId,
			TargetRoleName:       specInReq.TargetRoleName,
			Notes:                specInReq.Notes,
		})
		if err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.BadRequest("pipeline is not found or has no stages", err)
			}
			return binderr.InternalServerError(err)
		}

		return getApplicantResponse(c, dbapplicant, dbpipeline, applicantId)
	}
}

func getApplicantResponse(
	c echo.Context,
	dbapplicant applicantdb.Interface,
	dbpipeline pipelinedb.Interface,
	applicantId string,
) error {
	ctx := c.Request().Context()

	applicants, err := dbapplicant.Get(ctx, []string{applicantId})
	if err != nil {
		return binderr.InternalServerError(err)
	}
	applicant, ok := applicants[applicantId]
	if !ok {
		return binderr.NotFound()
	}

	pipelines, err := pipelinesOf(ctx, dbpipeline, []domain.ApplicantBody{applicant.ApplicantBody})
	if err != nil {
		return binderr.InternalServerError(err)
	}

	return c.JSON(http.StatusOK, bindapplicants.ComposeDetail(
		applicant, alertOf(applicant.ApplicantBody, pipelines, time.Now()),
	))
}

func FindApplicantHandler(
	dbapplicant applicantdb.Interface, dbpipeline pipelinedb.Interface,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		query := domain.ApplicantFindQuery{
			PipelineId: astrings.SplitIfNotEmpty(c.QueryParam("pipeline"), ","),
			StageId:    astrings.SplitIfNotEmpty(c.QueryParam("stage"), ","),
			Search:     c.QueryParam("search"),
		}
		for _, s := range astrings.SplitIfNotEmpty(c.QueryParam("status"), ",") {
			status, err := domain.AsApplicantStatus(s)
			if err != nil {
				return binderr.BadRequest(err.Error(), err)
			}
			query.Status = append(query.Status, status)
		}
		for _, m := range astrings.SplitIfNotEmpty(c.QueryParam("membership"), ",") {
			membershipType, err := domain.AsMembershipType(m)
			if err != nil {
				return binderr.BadRequest(err.Error(), err)
			}
			query.MembershipType = append(query.MembershipType, membershipType)
		}

		page := domain.Page{}
		if p := c.QueryParam("page"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil {
				return binderr.BadRequest("page should be an integer", err)
			}
			page.Number = n
		}
		if s := c.QueryParam("size"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return binderr.BadRequest("size should be an integer", err)
			}
			page.Size = n
		}
		page = page.Normalize()

		applicantIds, err := dbapplicant.Find(ctx, query, page)
		if err != nil {
			return binderr.InternalServerError(err)
		}
		total, err := dbapplicant.Count(ctx, query)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		applicants, err := dbapplicant.Get(ctx, applicantIds)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		bodies := make([]domain.ApplicantBody, 0, len(applicants))
		for _, applicantId := range applicantIds {
			if a, ok := applicants[applicantId]; ok {
				bodies = append(bodies, a.ApplicantBody)
			}
		}

		pipelines, err := pipelinesOf(ctx, dbpipeline, bodies)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		now := time.Now()
		items := slices.Map(bodies, func(b domain.ApplicantBody) apiapplicants.Summary {
			return bindapplicants.ComposeSummary(b, alertOf(b, pipelines, now))
		})

		return c.JSON(http.StatusOK, apiapplicants.Page{
			Items: items,
			Page:  page.Number,
			Size:  page.Size,
			Total: total,
		})
	}
}

func GetApplicantHandler(
	dbapplicant applicantdb.Interface, dbpipeline pipelinedb.Interface,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return getApplicantResponse(c, dbapplicant, dbpipeline, c.Param("applicantId"))
	}
}

func UpdateApplicantHandler(
	dbapplicant applicantdb.Interface, dbpipeline pipelinedb.Interface,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		applicantId := c.Param("applicantId")

		specInReq := new(apiapplicants.ProfileUpdateSpec)
		if err := json.NewDecoder(c.Request().Body).Decode(specInReq); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}
		if specInReq.Name == "" || specInReq.Email == "" {
			return binderr.BadRequest("name and email are required", nil)
		}
		membershipType, err := domain.AsMembershipType(specInReq.TargetMembershipType)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}

		if err := dbapplicant.UpdateProfile(
			ctx, applicantId, domain.ProfileUpdate{
				Profile:              asProfile(specInReq.Profile),
				TargetMembershipType: membershipType,
				TargetRoleId:         specInReq.TargetRoleId,
				TargetRoleName:       specInReq.TargetRoleName,
				Notes:                specInReq.Notes,
			},
		); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		return getApplicantResponse(c, dbapplicant, dbpipeline, applicantId)
	}
}

func DeleteApplicantHandler(dbapplicant applicantdb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := dbapplicant.Delete(ctx, c.Param("applicantId")); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

// TransitionHandler wraps one status transition (advance, hold, resume,
// reject, withdraw as reason-bearing variant aside, reactivate) into
// an endpoint taking {"notes": ...}.
func TransitionHandler(
	dbapplicant applicantdb.Interface,
	dbpipeline pipelinedb.Interface,
	transit func(ctx context.Context, applicantId string, actor string, notes string) error,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		applicantId := c.Param("applicantId")

		req := new(apiapplicants.TransitionRequest)
		if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		if err := transit(ctx, applicantId, auth.Actor(c), req.Notes); err != nil {
			return transitionError(err)
		}

		return getApplicantResponse(c, dbapplicant, dbpipeline, applicantId)
	}
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrMissing):
		return binderr.NotFound()
	case errors.Is(err, domain.ErrInvalidStatusChanging):
		return binderr.Conflict("status transition is not allowed", binderr.WithError(err))
	case errors.Is(err, domain.ErrStageIncomplete):
		return binderr.Conflict(
			"current stage requirement is not satisfied",
			binderr.WithError(err),
		)
	case errors.Is(err, domain.ErrFinalStage):
		return binderr.Conflict(
			"the applicant is on the final stage",
			binderr.WithAdvice("convert the applicant to a member instead"),
			binderr.WithError(err),
		)
	default:
		return binderr.InternalServerError(err)
	}
}

func WithdrawHandler(
	dbapplicant applicantdb.Interface, dbpipeline pipelinedb.Interface,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		applicantId := c.Param("applicantId")

		req := new(apiapplicants.WithdrawRequest)
		if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		if err := dbapplicant.Withdraw(ctx, applicantId, auth.Actor(c), req.Reason); err != nil {
			return transitionError(err)
		}

		return getApplicantResponse(c, dbapplicant, dbpipeline, applicantId)
	}
}

func FormSubmissionHandler(dbapplicant applicantdb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		applicantId := c.Param("applicantId")

		req := new(apiapplicants.FormSubmissionRequest)
		if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}
		if req.FormId == "" {
			return binderr.BadRequest("form_id is required", nil)
		}

		submissionId, err := dbapplicant.RecordFormSubmission(ctx, applicantId, req.FormId)
		if err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return binderr.NotFound()
			}
			return binderr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, map[string]string{"submission_id": submissionId})
	}
}

func ApprovalHandler(dbapplicant applicantdb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		applicantId := c.Param("applicantId")

		req := new(apiapplicants.ApprovalRequest)
		if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		approvalId, err := dbapplicant.RecordApproval(
			ctx, applicantId, auth.Actor(c), auth.Roles(c), req.Notes,
		)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrMissing):
				return binderr.NotFound()
			case errors.Is(err, domain.ErrWrongStageType):
				return binderr.Conflict(
					"the current stage does not take manual approval",
					binderr.WithError(err),
				)
			case errors.Is(err, domain.ErrApproverNotPermitted):
				return binderr.Forbidden("none of your roles may approve this stage", err)
			case errors.Is(err, domain.ErrNotesRequired):
				return binderr.BadRequest("this stage requires approval notes", err)
			default:
				return binderr.InternalServerError(err)
			}
		}

		return c.JSON(http.StatusOK, map[string]string{"approval_id": approvalId})
	}
}

func BulkHandler(dbapplicant applicantdb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		reqInBody := new(apiapplicants.BulkRequest)
		if err := json.NewDecoder(c.Request().Body).Decode(reqInBody); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		action, err := bulk.AsAction(reqInBody.Action)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}
		if len(reqInBody.ApplicantIds) == 0 {
			return binderr.BadRequest("applicant_ids is required", nil)
		}

		outcome, err := bulk.Apply(ctx, dbapplicant, auth.Actor(c), bulk.Request{
			Action:       action,
			ApplicantIds: reqInBody.ApplicantIds,
			Notes:        reqInBody.Notes,
			Confirmed:    reqInBody.Confirmed,
		})
		if err != nil {
			if errors.Is(err, bulk.ErrConfirmationRequired) {
				return binderr.BadRequest(
					`bulk reject needs "confirmed": true`, err,
				)
			}
			return binderr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiapplicants.BulkResult{
			Total:     outcome.Total,
			Succeeded: outcome.Succeeded,
			Failures: slices.Map(outcome.Failures, func(f bulk.Failure) apiapplicants.BulkFailure {
				return apiapplicants.BulkFailure{ApplicantId: f.ApplicantId, Reason: f.Reason}
			}),
		})
	}
}

func ConvertHandler(
	dbapplicant applicantdb.Interface,
	provisioner conversion.Provisioner,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		applicantId := c.Param("applicantId")

		reqInBody := new(apiapplicants.ConversionRequest)
		if err := json.NewDecoder(c.Request().Body).Decode(reqInBody); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		membershipType, err := domain.AsMembershipType(reqInBody.TargetMembershipType)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}

		sendWelcomeEmail := true
		if reqInBody.SendWelcomeEmail != nil {
			sendWelcomeEmail = *reqInBody.SendWelcomeEmail
		}

		spec := domain.ConversionSpec{
			TargetMembershipType: membershipType,
			Rank:                 reqInBody.Rank,
			Station:              reqInBody.Station,
			MiddleName:           reqInBody.MiddleName,
			SendWelcomeEmail:     sendWelcomeEmail,
			Notes:                reqInBody.Notes,
		}
		if reqInBody.HireDate != "" {
			hireDate, err := time.Parse("2006-01-02", reqInBody.HireDate)
			if err != nil {
				return binderr.BadRequest("hire_date should be YYYY-MM-DD", err)
			}
			spec.HireDate = hireDate
		}
		if ec := reqInBody.EmergencyContact; ec != nil {
			if ec.Name == "" || ec.Phone == "" {
				return binderr.BadRequest("emergency contact needs name and phone", nil)
			}
			spec.EmergencyContact = &domain.EmergencyContact{
				Name:     ec.Name,
				Phone:    ec.Phone,
				Relation: ec.Relation,
				Primary:  true,
			}
		}

		var result domain.ConversionResult
		err = dbapplicant.Convert(
			ctx, applicantId, auth.Actor(c),
			func(applicant domain.Applicant) (domain.ConversionResult, error) {
				r, err := provisioner.Provision(ctx, applicant, spec)
				if err == nil {
					result = r
				}
				return r, err
			},
		)
		if err != nil {
			if errors.Is(err, conversion.ErrProvisioningFailed) {
				return binderr.NewErrorMessage(
					http.StatusBadGateway,
					"member provisioning failed",
					binderr.WithAdvice("the applicant is unchanged. retry later."),
					binderr.WithError(err),
				)
			}
			return transitionError(err)
		}

		return c.JSON(http.StatusOK, apiapplicants.ConversionResult{
			MemberId:         result.MemberId,
			MembershipNumber: result.MembershipNumber,
			Message:          result.Message,
		})
	}
}
