package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apielections "github.com/openadmit/openadmit/pkg/api/types/elections"
	bindelections "github.com/openadmit/openadmit/pkg/api-types-binding/elections"
	binderr "github.com/openadmit/openadmit/pkg/api-types-binding/errors"
	"github.com/openadmit/openadmit/pkg/auth"
	"github.com/openadmit/openadmit/pkg/domain"
	electiondb "github.com/openadmit/openadmit/pkg/domain/election/db"
)

func electionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrMissing):
		return binderr.NotFound()
	case errors.Is(err, domain.ErrNotOnElectionStage):
		return binderr.Conflict(
			"the applicant is not active on an election stage",
			binderr.WithError(err),
		)
	case errors.Is(err, domain.ErrPackageNotEditable):
		return binderr.Conflict(
			"the election package left draft; it is read-only",
			binderr.WithError(err),
		)
	case errors.Is(err, domain.ErrInvalidPackageStateChanging):
		return binderr.Conflict(
			"package state transition is not allowed",
			binderr.WithError(err),
		)
	default:
		return binderr.InternalServerError(err)
	}
}

// GetElectionPackageHandler returns the applicant's election package
// for their current stage, creating the draft on first access.
func GetElectionPackageHandler(dbelection electiondb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		pkg, err := dbelection.GetOrCreate(ctx, c.Param("applicantId"))
		if err != nil {
			return electionError(err)
		}

		return c.JSON(http.StatusOK, bindelections.ComposePackageDetail(pkg))
	}
}

func UpdateElectionPackageHandler(dbelection electiondb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		applicantId := c.Param("applicantId")

		req := new(apielections.UpdateRequest)
		if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		if err := dbelection.Update(
			ctx, applicantId, auth.Actor(c),
			req.CoordinatorNotes, req.SupportingStatement,
		); err != nil {
			return electionError(err)
		}

		pkg, err := dbelection.GetOrCreate(ctx, applicantId)
		if err != nil {
			return electionError(err)
		}
		return c.JSON(http.StatusOK, bindelections.ComposePackageDetail(pkg))
	}
}

func SubmitElectionPackageHandler(dbelection electiondb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := new(apielections.SubmitRequest)
		if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		pkg, err := dbelection.Submit(
			ctx, c.Param("applicantId"), auth.Actor(c),
			req.CoordinatorNotes, req.SupportingStatement,
		)
		if err != nil {
			return electionError(err)
		}

		return c.JSON(http.StatusOK, bindelections.ComposePackageDetail(pkg))
	}
}

// BallotStatusHandler lets the elections subsystem report ballot
// progress back: ready -> added_to_ballot -> elected | not_elected.
func BallotStatusHandler(dbelection electiondb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := new(apielections.BallotStatusRequest)
		if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil {
			return binderr.BadRequest("can not understand the requested json", err)
		}

		status, err := domain.AsElectionPackageStatus(req.Status)
		if err != nil {
			return binderr.BadRequest(err.Error(), err)
		}

		if err := dbelection.SetBallotStatus(
			ctx, c.Param("applicantId"), status,
		); err != nil {
			return electionError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}
