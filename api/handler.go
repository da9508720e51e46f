package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"escrow-charge/adapters/storage"
	"escrow-charge/core/charge"
	"escrow-charge/core/output"
	"escrow-charge/internal/errors"
	"escrow-charge/internal/logging"
)

// handleServiceCharge handles POST /service-charge
func (s *Server) handleServiceCharge(w http.ResponseWriter, r *http.Request) {
	var req ServiceChargeRequest
	if !s.decode(w, r, &req) {
		return
	}

	currency, err := parseCurrency(req.Currency, s.currency)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	b, err := s.calculate(req.MilestoneAmount, req.ProjectBudget)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, output.NewBreakdownView(currency, b), http.StatusOK)
}

// handleTiers handles GET /service-charge/tiers
func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"tiers": output.NewTierViews(s.calc.Table()),
	}, http.StatusOK)
}

// handleProjectQuote handles POST /service-charge/projects
func (s *Server) handleProjectQuote(w http.ResponseWriter, r *http.Request) {
	var req ProjectQuoteRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ProjectID == "" {
		s.writeDomainError(w, errors.Input("projectId is required"))
		return
	}

	currency, err := parseCurrency(req.Currency, s.currency)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	budget, err := req.Budget.projectBudget("budget")
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	milestones := make([]charge.Milestone, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		amount, err := m.Amount.milestoneAmount("milestones[" + m.ID + "].amount")
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		milestones = append(milestones, charge.Milestone{ID: m.ID, Title: m.Title, Amount: amount})
	}

	q, err := s.calc.QuoteProject(req.ProjectID, currency, budget, milestones)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, output.NewProjectView(q), http.StatusOK)
}

// handleCreateQuote handles POST /quotes
func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	var req CreateQuoteRequest
	if !s.decode(w, r, &req) {
		return
	}

	currency, err := parseCurrency(req.Currency, s.currency)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	b, err := s.calculate(req.MilestoneAmount, req.ProjectBudget)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	quote := &storage.Quote{
		ProjectID:   req.ProjectID,
		MilestoneID: req.MilestoneID,
		Currency:    currency,
		Breakdown:   b,
	}
	if err := s.store.Save(r.Context(), quote); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logger.Info("quote saved",
		zap.String("quote_id", quote.ID),
		zap.String("project_id", quote.ProjectID),
		zap.Int64("percentage", b.Percentage),
		logging.Money("total_amount", b.TotalAmount),
	)
	w.Header().Set("Location", "/quotes/"+quote.ID)
	s.writeJSON(w, newQuoteResponse(quote), http.StatusCreated)
}

// handleGetQuote handles GET /quotes/{quoteID}
func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	quote, err := s.store.Get(r.Context(), chi.URLParam(r, "quoteID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, newQuoteResponse(quote), http.StatusOK)
}

// handleListQuotes handles GET /projects/{projectID}/quotes
func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	quotes, err := s.store.List(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		resp[i] = newQuoteResponse(q)
	}
	s.writeJSON(w, map[string]interface{}{
		"quotes": resp,
		"count":  len(resp),
	}, http.StatusOK)
}

func (s *Server) calculate(amount, budget Amount) (charge.Breakdown, error) {
	milestoneAmount, err := amount.milestoneAmount("milestoneAmount")
	if err != nil {
		return charge.Breakdown{}, err
	}
	projectBudget, err := budget.projectBudget("projectBudget")
	if err != nil {
		return charge.Breakdown{}, err
	}
	return s.calc.Calculate(milestoneAmount, projectBudget)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeError(w, "STORAGE_UNAVAILABLE", "quote storage is not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}
