package routes

import (
	"clinicportal/cmd/internal/service"
	"clinicportal/cmd/internal/utils"
	"clinicportal/cmd/internal/utils/apierror"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AppointmentService interface {
	GetAppointments(subId, rawStatus string) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	GetAppointment(id, subId string) (*service.AppointmentResponse, apierror.ErrorResponse)
	GetTransitions(id, subId string) ([]*service.StatusView, apierror.ErrorResponse)
	CreateAppointment(req *service.AppointmentRequest, subId string) (*service.AppointmentResponse, apierror.ErrorResponse)
	ChangeStatus(id string, req *service.StatusChangeRequest, subId string) (*service.AppointmentResponse, apierror.ErrorResponse)
	DeleteAppointment(id, sub string) apierror.ErrorResponse
	GetCalendar(monthStart, monthEnd string) (*service.CalendarResponse, apierror.ErrorResponse)
	GetStatusCatalog() []*service.StatusCatalogEntry
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	status := strings.TrimSpace(c.QueryParam("status"))
	appts, apierr := a.AppointmentService.GetAppointments(data.Sub, status)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"appointments": appts}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) GetAppointment(c echo.Context) error {
	id, errResp := parseAppointmentID(c)
	if errResp != nil {
		return c.JSON(errResp.Code(), errResp)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.GetAppointment(id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) GetTransitions(c echo.Context) error {
	id, errResp := parseAppointmentID(c)
	if errResp != nil {
		return c.JSON(errResp.Code(), errResp)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	views, apierr := a.AppointmentService.GetTransitions(id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"transitions": views}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) CreateAppointment(c echo.Context) error {
	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.CreateAppointment(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (a *DefaultAppointmentRoute) ChangeStatus(c echo.Context) error {
	id, errResp := parseAppointmentID(c)
	if errResp != nil {
		return c.JSON(errResp.Code(), errResp)
	}

	var req service.StatusChangeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.ChangeStatus(id, &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) DeleteAppointment(c echo.Context) error {
	id, errResp := parseAppointmentID(c)
	if errResp != nil {
		return c.JSON(errResp.Code(), errResp)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	serr := a.AppointmentService.DeleteAppointment(id, data.Sub)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusOK)
}

func (a *DefaultAppointmentRoute) GetStatuses(c echo.Context) error {
	resp := echo.Map{"statuses": a.AppointmentService.GetStatusCatalog()}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) GetCalendar(c echo.Context) error {
	monthStr := c.QueryParam("month") // "2025-08"
	if monthStr == "" {
		return c.JSON(400, apierror.NewMissingParamError("month"))
	}

	monthStart, monthEnd, err := parseMonthString(monthStr)
	if err != nil {
		apierr := apierror.NewSimple(400, "Could not understand month format")
		return c.JSON(apierr.Code(), apierr)
	}

	calendar, apierr := a.AppointmentService.GetCalendar(monthStart, monthEnd)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &calendar)
}

func parseAppointmentID(c echo.Context) (string, apierror.ErrorResponse) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", apierror.NewInvalidParamTypeError("id", "uuid")
	}
	return id.String(), nil
}

// parseMonthString takes "YYYY-MM" (e.g., "2025-08") and returns the first
// day of that month and the first day of the next month as YYYY-MM-DD.
func parseMonthString(monthString string) (string, string, error) {
	t, err := time.Parse("2006-01", monthString)
	if err != nil {
		return "", "", errors.New("invalid month format, expected YYYY-MM")
	}

	monthEnd := t.AddDate(0, 1, 0)
	return t.Format(time.DateOnly), monthEnd.Format(time.DateOnly), nil
}
