package v1

import (
	"net/http"

	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/transactions"
	"github.com/gin-gonic/gin"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransaction)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", co.GetTransaction)
		r.PUT("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	httputil.OptionsGetPutDelete(c)
}

// @Summary		Get transactions
// @Description	Returns the transactions of the user, newest first
// @Tags			Transactions
// @Produce		json
// @Security		BearerAuth
// @Success		200		{object}	TransactionListResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			startDate	query		string	false	"First day, inclusive"
// @Param			endDate		query		string	false	"Last day, inclusive"
// @Router			/v1/transactions [get]
func (co Controller) GetTransactions(c *gin.Context) {
	var query QueryDateRange
	if err := c.ShouldBindQuery(&query); err != nil {
		abort(c, err)
		return
	}

	dr, err := query.model(co.location())
	if err != nil {
		abort(c, err)
		return
	}

	list, err := co.Transactions.List(c.Request.Context(), userID(c), dr)
	if err != nil {
		abort(c, err)
		return
	}

	data := make([]Transaction, 0, len(list))
	for _, t := range list {
		data = append(data, co.newTransaction(c, t))
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: data})
}

// @Summary		Get transaction
// @Description	Returns a single transaction of the user
// @Tags			Transactions
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/transactions/{id} [get]
func (co Controller) GetTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	t, err := co.Transactions.Get(c.Request.Context(), userID(c), uri.ID.UUID)
	if err != nil {
		abort(c, err)
		return
	}

	data := co.newTransaction(c, t)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Create transaction
// @Description	Creates a transaction for the user
// @Tags			Transactions
// @Produce		json
// @Security		BearerAuth
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			transaction	body		transactions.Editable	true	"Transaction"
// @Router			/v1/transactions [post]
func (co Controller) CreateTransaction(c *gin.Context) {
	var editable transactions.Editable
	if err := httputil.BindData(c, &editable); err != nil {
		abort(c, err)
		return
	}

	t, err := co.Transactions.Create(c.Request.Context(), userID(c), editable)
	if err != nil {
		abort(c, err)
		return
	}

	data := co.newTransaction(c, t)
	c.JSON(http.StatusCreated, TransactionResponse{Data: &data})
}

// @Summary		Update transaction
// @Description	Replaces all editable fields of a transaction of the user
// @Tags			Transactions
// @Produce		json
// @Security		BearerAuth
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		URIID					true	"ID formatted as string"
// @Param			transaction	body		transactions.Editable	true	"Transaction"
// @Router			/v1/transactions/{id} [put]
func (co Controller) UpdateTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	var editable transactions.Editable
	if err := httputil.BindData(c, &editable); err != nil {
		abort(c, err)
		return
	}

	t, err := co.Transactions.Update(c.Request.Context(), userID(c), uri.ID.UUID, editable)
	if err != nil {
		abort(c, err)
		return
	}

	data := co.newTransaction(c, t)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction of the user
// @Tags			Transactions
// @Security		BearerAuth
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/transactions/{id} [delete]
func (co Controller) DeleteTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abort(c, httputil.ErrInvalidUUID)
		return
	}

	if err := co.Transactions.Delete(c.Request.Context(), userID(c), uri.ID.UUID); err != nil {
		abort(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
