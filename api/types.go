// Package api - API types for service-charge quotes
// Amounts are accepted as JSON numbers or numeric strings and returned as JSON numbers.
package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"escrow-charge/adapters/storage"
	"escrow-charge/core/charge"
	"escrow-charge/core/output"
	"escrow-charge/core/types"
	"escrow-charge/internal/errors"
)

// Amount is a monetary request field kept as raw JSON until validated
type Amount json.RawMessage

// UnmarshalJSON keeps the raw token
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = append((*a)[:0], data...)
	return nil
}

// present reports whether the field was sent with a non-null value
func (a Amount) present() bool {
	return len(a) > 0 && !bytes.Equal(a, []byte("null"))
}

// text returns the numeric text, unquoting string tokens
func (a Amount) text() string {
	var s string
	if err := json.Unmarshal(a, &s); err == nil {
		return s
	}
	return string(a)
}

func (a Amount) milestoneAmount(field string) (decimal.Decimal, error) {
	if !a.present() {
		return decimal.Decimal{}, errors.InvalidAmount(field + " is required")
	}
	return charge.ParseAmount(a.text())
}

func (a Amount) projectBudget(field string) (decimal.Decimal, error) {
	if !a.present() {
		return decimal.Decimal{}, errors.InvalidBudget(field + " is required")
	}
	return charge.ParseBudget(a.text())
}

// ServiceChargeRequest is the input to POST /service-charge
type ServiceChargeRequest struct {
	MilestoneAmount Amount `json:"milestoneAmount"`
	ProjectBudget   Amount `json:"projectBudget"`
	Currency        string `json:"currency,omitempty"`
}

// ProjectQuoteRequest is the input to POST /service-charge/projects
type ProjectQuoteRequest struct {
	ProjectID  string             `json:"projectId"`
	Budget     Amount             `json:"budget"`
	Currency   string             `json:"currency,omitempty"`
	Milestones []MilestoneRequest `json:"milestones"`
}

// MilestoneRequest is one milestone of a ProjectQuoteRequest
type MilestoneRequest struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Amount Amount `json:"amount"`
}

// CreateQuoteRequest is the input to POST /quotes
type CreateQuoteRequest struct {
	ProjectID       string `json:"projectId"`
	MilestoneID     string `json:"milestoneId"`
	MilestoneAmount Amount `json:"milestoneAmount"`
	ProjectBudget   Amount `json:"projectBudget"`
	Currency        string `json:"currency,omitempty"`
}

// QuoteResponse is a stored quote
type QuoteResponse struct {
	ID          string               `json:"id"`
	ProjectID   string               `json:"projectId"`
	MilestoneID string               `json:"milestoneId"`
	Breakdown   output.BreakdownView `json:"breakdown"`
	CreatedAt   time.Time            `json:"createdAt"`
}

func newQuoteResponse(q *storage.Quote) QuoteResponse {
	return QuoteResponse{
		ID:          q.ID,
		ProjectID:   q.ProjectID,
		MilestoneID: q.MilestoneID,
		Breakdown:   output.NewBreakdownView(q.Currency, q.Breakdown),
		CreatedAt:   q.CreatedAt,
	}
}

// ErrorBody is the error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func parseCurrency(s string, fallback types.Currency) (types.Currency, error) {
	if s == "" {
		return fallback, nil
	}
	c, ok := types.ParseCurrency(s)
	if !ok {
		return "", errors.Input("unsupported currency " + s)
	}
	return c, nil
}
