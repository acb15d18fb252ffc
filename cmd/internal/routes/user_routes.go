package routes

import (
	"clinicportal/cmd/internal/service"
	"clinicportal/cmd/internal/utils"
	"clinicportal/cmd/internal/utils/apierror"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	GetUsers(rawRole string) ([]*service.UserResponse, apierror.ErrorResponse)
	GetUser(rawId, subId string) (*service.UserResponse, apierror.ErrorResponse)
	CreateUser(req *service.CreateUserRequest, subId string) (*service.UserResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) GetUsers(c echo.Context) error {
	role := strings.TrimSpace(c.QueryParam("role"))
	users, apierr := u.UserService.GetUsers(role)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"users": users}
	return c.JSON(http.StatusOK, &resp)
}

func (u *DefaultUserRoute) GetUser(c echo.Context) error {
	rawId := strings.TrimSpace(c.Param("id"))
	if rawId == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	user, apierr := u.UserService.GetUser(rawId, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}

func (u *DefaultUserRoute) CreateUser(c echo.Context) error {
	var req service.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	user, apierr := u.UserService.CreateUser(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, user)
}
