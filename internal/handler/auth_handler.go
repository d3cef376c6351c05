package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NeiltonSeguins/blog-school/internal/models"
	"github.com/NeiltonSeguins/blog-school/internal/service"
	appErrors "github.com/NeiltonSeguins/blog-school/pkg/errors"
	"github.com/NeiltonSeguins/blog-school/pkg/response"
)

// AuthHandler wires the login and registration endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by email and password, returning `{token, user}`
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} map[string]string
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// RoleLogin godoc
// @Summary Authenticate user with role
// @Description Role-aware login returning a flat `{token,id,name,email,role}` body
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RoleLoginRequest true "Login payload"
// @Success 200 {object} models.RoleLoginResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) RoleLogin(c *gin.Context) {
	var req models.RoleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.LoginWithRole(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Register godoc
// @Summary Register account
// @Description Create a new account; duplicate emails yield 400
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Register payload"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} map[string]string
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid register payload"))
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 200 rather than 201: the mobile clients treat register as a login.
	response.JSON(c, http.StatusOK, res)
}
