package v1

import (
	"net/http"

	"github.com/budgetbook/backend/internal/auth"
	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterAdminRoutes registers the routes for administration with
// the RouterGroup that is passed.
func (co Controller) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/status", OptionsAdminStatus)
	r.GET("/status", co.GetAdminStatus)

	r.OPTIONS("/users", OptionsAdminList)
	r.GET("/users", co.GetAdmins)
	r.POST("/users", co.CreateAdmin)

	r.OPTIONS("/users/:id", OptionsAdminDetail)
	r.DELETE("/users/:id", co.DeleteAdmin)
}

// AdminEditable grants a role to a user.
type AdminEditable struct {
	UserID uuid.UUID        `json:"userId" example:"65392deb-5e92-4268-b114-297faad6cdce"` // ID of the user
	Role   models.AdminRole `json:"role" example:"admin"`                                  // admin or super_admin, defaults to admin
}

type AdminStatusResponse struct {
	Data  auth.AdminStatus `json:"data"`  // Administrative rights of the authenticated user
	Error *string          `json:"error"` // The error, if any occurred
}

type AdminListResponse struct {
	Data  []models.AdminUser `json:"data"`                                                                // Administrators, newest first
	Error *string            `json:"error" example:"only super administrators can manage administrators"` // The error, if any occurred
}

type AdminResponse struct {
	Data  *models.AdminUser `json:"data"`                                                 // The administrator
	Error *string           `json:"error" example:"the user already is an administrator"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Administration
// @Success		204
// @Router			/v1/admin/status [options]
func OptionsAdminStatus(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Administration
// @Success		204
// @Router			/v1/admin/users [options]
func OptionsAdminList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Administration
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/admin/users/{id} [options]
func OptionsAdminDetail(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Get admin status
// @Description	Returns the administrative rights of the authenticated user
// @Tags			Administration
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	AdminStatusResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/admin/status [get]
func (co Controller) GetAdminStatus(c *gin.Context) {
	status, err := co.Admins.CheckAdmin(c.Request.Context(), userID(c))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, AdminStatusResponse{Data: status})
}

// @Summary		Get administrators
// @Description	Returns all administrators. Only super administrators may list them.
// @Tags			Administration
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	AdminListResponse
// @Failure		401	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/admin/users [get]
func (co Controller) GetAdmins(c *gin.Context) {
	admins, err := co.Admins.List(c.Request.Context(), userID(c))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, AdminListResponse{Data: admins})
}

// @Summary		Add administrator
// @Description	Grants administrative rights to a user. Only super administrators may add administrators.
// @Tags			Administration
// @Produce		json
// @Security		BearerAuth
// @Success		201		{object}	AdminResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		403		{object}	httpError
// @Failure		409		{object}	httpError
// @Param			admin	body		AdminEditable	true	"Administrator"
// @Router			/v1/admin/users [post]
func (co Controller) CreateAdmin(c *gin.Context) {
	var editable AdminEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abort(c, err)
		return
	}

	admin, err := co.Admins.Add(c.Request.Context(), userID(c), editable.UserID, editable.Role)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, AdminResponse{Data: &admin})
}

// @Summary		Remove administrator
// @Description	Revokes the administrative rights of a user. Only super administrators may remove administrators.
// @Tags			Administration
// @Security		BearerAuth
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID of the user"
// @Router			/v1/admin/users/{id} [delete]
func (co Controller) DeleteAdmin(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	if err := co.Admins.Remove(c.Request.Context(), userID(c), uri.ID.UUID); err != nil {
		abort(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
