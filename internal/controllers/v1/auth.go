package v1

import (
	"net/http"

	"github.com/budgetbook/backend/internal/auth"
	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/i18n"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the routes for authentication with
// the RouterGroup that is passed.
func (co Controller) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/signup", OptionsAuthPost)
	r.POST("/signup", co.SignUp)

	r.OPTIONS("/signin", OptionsAuthPost)
	r.POST("/signin", co.SignIn)

	r.OPTIONS("/reset-password", OptionsAuthPost)
	r.POST("/reset-password", co.ResetPassword)

	r.OPTIONS("/update-password", OptionsAuthPost)
	r.POST("/update-password", co.UpdatePassword)

	r.OPTIONS("/signout", OptionsAuthPost)
	r.POST("/signout", co.SignOut)

	r.OPTIONS("/session", OptionsAuthSession)
	r.GET("/session", co.GetSession)
}

type UserResponse struct {
	Data  *models.User `json:"data"`                                                   // The user
	Error *string      `json:"error" example:"the id in the path is not a valid UUID"` // The error, if any occurred
}

type SessionResponse struct {
	Data  *auth.Session `json:"data"`                                       // The session, null if there is none
	Error *string       `json:"error" example:"Invalid or expired session"` // The error, if any occurred
}

type Message struct {
	Message string `json:"message" example:"Reset link sent to your email"` // Confirmation for the user
}

type MessageResponse struct {
	Data  Message `json:"data"`                                               // The confirmation
	Error *string `json:"error" example:"Please enter a valid email address"` // The error, if any occurred
}

type ResetPasswordRequest struct {
	Email      string `json:"email" example:"jane@example.com"`                             // Email address of the account
	RedirectTo string `json:"redirectTo" example:"https://app.example.com/update-password"` // Page the recovery link points to
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Authentication
// @Success		204
// @Router			/v1/auth/signup [options]
// @Router			/v1/auth/signin [options]
// @Router			/v1/auth/reset-password [options]
// @Router			/v1/auth/update-password [options]
// @Router			/v1/auth/signout [options]
func OptionsAuthPost(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Authentication
// @Success		204
// @Router			/v1/auth/session [options]
func OptionsAuthSession(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Sign up
// @Description	Creates a user and its profile
// @Tags			Authentication
// @Produce		json
// @Success		201		{object}	UserResponse
// @Failure		400		{object}	httpError
// @Failure		422		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			form	body		validation.RegistrationForm	true	"Registration"
// @Router			/v1/auth/signup [post]
func (co Controller) SignUp(c *gin.Context) {
	var form validation.RegistrationForm
	if err := httputil.BindData(c, &form); err != nil {
		abort(c, err)
		return
	}

	user, err := co.Gateway.SignUp(c.Request.Context(), form)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{Data: &user})
}

// @Summary		Sign in
// @Description	Starts a session for an email and password
// @Tags			Authentication
// @Produce		json
// @Success		200		{object}	SessionResponse
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			form	body		validation.LoginForm	true	"Credentials"
// @Router			/v1/auth/signin [post]
func (co Controller) SignIn(c *gin.Context) {
	var form validation.LoginForm
	if err := httputil.BindData(c, &form); err != nil {
		abort(c, err)
		return
	}

	session, err := co.Gateway.SignIn(c.Request.Context(), form)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Data: &session})
}

// @Summary		Reset password
// @Description	Sends a password recovery link. The response is the same whether an account exists for the email or not.
// @Tags			Authentication
// @Produce		json
// @Success		200		{object}	MessageResponse
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			request	body		ResetPasswordRequest	true	"Email address"
// @Router			/v1/auth/reset-password [post]
func (co Controller) ResetPassword(c *gin.Context) {
	var request ResetPasswordRequest
	if err := httputil.BindData(c, &request); err != nil {
		abort(c, err)
		return
	}

	email := validation.SanitizeEmail(request.Email)
	if !validation.IsEmail(email) {
		abort(c, validation.NewError("email", "Please enter a valid email address"))
		return
	}

	if err := co.Gateway.ResetPassword(c.Request.Context(), email, request.RedirectTo); err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Data: Message{Message: i18n.Translate(locale(c), "Reset link sent to your email")},
	})
}

// @Summary		Update password
// @Description	Sets a new password. The bearer token is either a session or a recovery token.
// @Tags			Authentication
// @Produce		json
// @Success		200		{object}	UserResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		422		{object}	httpError
// @Param			form	body		validation.PasswordForm	true	"New password"
// @Router			/v1/auth/update-password [post]
func (co Controller) UpdatePassword(c *gin.Context) {
	var form validation.PasswordForm
	if err := httputil.BindData(c, &form); err != nil {
		abort(c, err)
		return
	}

	user, err := co.Gateway.UpdatePassword(c.Request.Context(), httputil.BearerToken(c), form)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: &user})
}

// @Summary		Sign out
// @Description	Ends the session of the bearer token
// @Tags			Authentication
// @Success		204
// @Failure		401	{object}	httpError
// @Router			/v1/auth/signout [post]
func (co Controller) SignOut(c *gin.Context) {
	if err := co.Gateway.SignOut(c.Request.Context(), httputil.BearerToken(c)); err != nil {
		abort(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Get session
// @Description	Returns the session of the bearer token, null if no token is sent
// @Tags			Authentication
// @Produce		json
// @Success		200	{object}	SessionResponse
// @Failure		401	{object}	httpError
// @Router			/v1/auth/session [get]
func (co Controller) GetSession(c *gin.Context) {
	session, err := co.Gateway.CheckSession(c.Request.Context(), httputil.BearerToken(c))
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Data: session})
}
