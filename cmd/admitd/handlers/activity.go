package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apiactivity "github.com/openadmit/openadmit/pkg/api/types/activity"
	bindactivity "github.com/openadmit/openadmit/pkg/api-types-binding/activity"
	binderr "github.com/openadmit/openadmit/pkg/api-types-binding/errors"
	"github.com/openadmit/openadmit/pkg/domain"
	activitydb "github.com/openadmit/openadmit/pkg/domain/activity/db"
	"github.com/openadmit/openadmit/pkg/utils/slices"
)

func ListActivityHandler(dbactivity activitydb.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		applicantId := c.Param("applicantId")

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

		entries, err := dbactivity.List(ctx, applicantId, page)
		if err != nil {
			return binderr.InternalServerError(err)
		}
		total, err := dbactivity.Count(ctx, applicantId)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiactivity.Page{
			Items: slices.Map(entries, bindactivity.ComposeEntry),
			Page:  page.Number,
			Size:  page.Size,
			Total: total,
		})
	}
}
