package v1

import (
	"fmt"

	"github.com/budgetbook/backend/internal/format"
	"github.com/budgetbook/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CategoryRef is a reference to a category or subcategory.
type CategoryRef struct {
	ID   uuid.UUID `json:"id" example:"1e2f4c5a-4e53-4bb5-9c7a-0b36f1f7c001"` // ID of the category
	Name string    `json:"name" example:"Food"`                               // Name of the category
}

// TransactionDisplay contains the transaction formatted for display.
type TransactionDisplay struct {
	Date   string `json:"date" example:"Mar 15, 2024, 02:30 PM"` // Date in the configured time zone
	Amount string `json:"amount" example:"€42.50"`               // Absolute amount with currency symbol
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/65392deb-5e92-4268-b114-297faad6cdce"` // The transaction itself
}

type Transaction struct {
	models.Transaction
	Category    *CategoryRef       `json:"category"`    // The main category, null if it does not resolve
	Subcategory *CategoryRef       `json:"subcategory"` // The subcategory, null if there is none
	Display     TransactionDisplay `json:"display"`     // Formatted values
	Links       TransactionLinks   `json:"links"`       // Links for the transaction
}

func (co Controller) newTransaction(c *gin.Context, model models.Transaction) Transaction {
	t := Transaction{
		Transaction: model,
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", c.GetString(string(models.DBContextURL)), model.ID),
		},
	}

	if model.ExpenseCategory != nil {
		t.Category = &CategoryRef{ID: model.ExpenseCategory.ID, Name: model.ExpenseCategory.Name}
	}

	if model.ExpenseSubcategory != nil {
		t.Subcategory = &CategoryRef{ID: model.ExpenseSubcategory.ID, Name: model.ExpenseSubcategory.Name}
	}

	tag := locale(c)
	amount, err := format.CurrencyIn(tag, model.Amount, co.Currency)
	if err != nil {
		log.Ctx(c.Request.Context()).Warn().Err(err).Str("currency", co.Currency).Msg("formatting amount failed")
		amount = format.AmountIn(tag, model.Amount)
	}

	t.Display = TransactionDisplay{
		Date:   format.Date(model.Date, co.location()),
		Amount: amount,
	}

	return t
}

type TransactionListResponse struct {
	Data  []Transaction `json:"data"`                                // List of transactions
	Error *string       `json:"error" example:"invalid date format"` // The error, if any occurred
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                                        // The transaction
	Error *string      `json:"error" example:"there is no transaction matching your query"` // The error, if any occurred
}
