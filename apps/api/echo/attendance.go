package echoapi

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceApi struct {
	deps *Deps
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := attendanceApi{deps: deps}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark)
	ag.POST("/checkin", api.checkIn)
	ag.GET("", api.query)
	ag.GET("/range", api.queryRange)
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}
	if err := data.Validate(ctx.Request().Context(), api.deps.AttendanceSvc); err != nil {
		return err
	}

	rec, err := api.deps.AttendanceSvc.Mark(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}

	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) checkIn(ctx echo.Context) error {
	var data CheckInRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CheckInRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	image, err := decodeImage(data.Image)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "image", Error: "invalid base64 image data"})
	}

	rec, err := api.deps.AttendanceSvc.CheckIn(ctx.Request().Context(), image)
	if err != nil {
		return errors.Wrap(err, "checking in")
	}

	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	var filter attendance.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	records, err := api.deps.AttendanceSvc.Query(ctx.Request().Context(), filter.Date)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) queryRange(ctx echo.Context) error {
	var filter attendance.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	records, err := api.deps.AttendanceSvc.QueryRange(ctx.Request().Context(), filter.StartDate, filter.EndDate)
	if err != nil {
		return errors.Wrap(err, "querying attendance range")
	}
	return ctx.JSON(http.StatusOK, records)
}

// decodeImage decodes a base64 payload, tolerating a `data:image/...;base64,` URL prefix.
func decodeImage(data string) ([]byte, error) {
	if i := strings.Index(data, ";base64,"); i >= 0 {
		data = data[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(data)
}
