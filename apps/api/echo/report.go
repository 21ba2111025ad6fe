package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type reportApi struct {
	deps *Deps
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := reportApi{deps: deps}

	rg := g.Group("/reports", jwt)
	rg.GET("/daily", api.daily)
	rg.GET("/range", api.rangeStats)
}

// Handlers

func (api *reportApi) daily(ctx echo.Context) error {
	var filter attendance.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	stats, err := api.deps.ReportSvc.Daily(ctx.Request().Context(), filter.Date)
	if err != nil {
		return errors.Wrap(err, "computing daily stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *reportApi) rangeStats(ctx echo.Context) error {
	var filter attendance.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	stats, err := api.deps.ReportSvc.Range(ctx.Request().Context(), filter.StartDate, filter.EndDate)
	if err != nil {
		return errors.Wrap(err, "computing range stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
