package http

import (
	"context"
	"net/http"
	"strconv"

	finance "tycoon-backend/internal/domain/finance"
	usecase "tycoon-backend/internal/usecase/finance"

	"github.com/labstack/echo/v4"
)

// FinanceService is the slice of the engine the finance routes dispatch into.
type FinanceService interface {
	FinanceSnapshot(ctx context.Context) (finance.OpenFinanceEvent, error)
	TakeLoan(ctx context.Context, in usecase.OriginateInput) (*finance.Loan, error)
	PayEMI(ctx context.Context) (*usecase.PaymentResult, error)
	PreCloseLoan(ctx context.Context) (*usecase.PreCloseResult, error)
	LoanHistory(ctx context.Context) ([]finance.Loan, error)
}

type FinanceHandler struct {
	svc     FinanceService
	archive finance.Archive // optional; history falls back to in-memory
}

func NewFinanceHandler(svc FinanceService, archive finance.Archive) *FinanceHandler {
	return &FinanceHandler{svc: svc, archive: archive}
}

// GetFinance serves the open-finance snapshot the bank screen renders.
func (h *FinanceHandler) GetFinance(c echo.Context) error {
	snap, err := h.svc.FinanceSnapshot(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, snap)
}

type takeLoanReq struct {
	BankID         string  `json:"bank_id" validate:"required"`
	LoanTypeID     string  `json:"loan_type_id" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0,dec2"`
	InterestRate   float64 `json:"interest_rate" validate:"omitempty,gt=0"`
	DurationMonths int     `json:"duration_months" validate:"required,gte=1,lte=60"`
	CollateralID   string  `json:"collateral_id" validate:"omitempty,hex32"`
}

func (h *FinanceHandler) TakeLoan(c echo.Context) error {
	var req takeLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	loan, err := h.svc.TakeLoan(c.Request().Context(), usecase.OriginateInput{
		BankID:         req.BankID,
		LoanTypeID:     req.LoanTypeID,
		Amount:         req.Amount,
		InterestRate:   req.InterestRate,
		DurationMonths: req.DurationMonths,
		CollateralID:   req.CollateralID,
	})
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *FinanceHandler) PayEMI(c echo.Context) error {
	res, err := h.svc.PayEMI(c.Request().Context())
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":          res.Success,
		"amount":           res.Amount,
		"principal_paid":   res.PrincipalPaid,
		"interest_paid":    res.InterestPaid,
		"remaining_amount": res.RemainingAmount,
		"remaining_months": res.RemainingMonths,
		"balance":          res.Balance,
		"completed":        res.Completed,
		"shortfall":        res.Shortfall,
	})
}

func (h *FinanceHandler) PreClose(c echo.Context) error {
	res, err := h.svc.PreCloseLoan(c.Request().Context())
	if err != nil {
		return c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"amount_paid":  res.AmountPaid,
		"penalty":      res.Penalty,
		"balance":      res.Balance,
		"credit_score": res.CreditScore,
	})
}

// maxScheduleMonths bounds the preview term: the schedule allocates one entry
// per month, so an unbounded query parameter would size an arbitrary slice.
const maxScheduleMonths = 600

// GetSchedule previews the amortization schedule for a hypothetical loan.
// Pure computation; no state is touched.
func (h *FinanceHandler) GetSchedule(c echo.Context) error {
	principal, err1 := strconv.ParseFloat(c.QueryParam("principal"), 64)
	rate, err2 := strconv.ParseFloat(c.QueryParam("rate"), 64)
	months, err3 := strconv.Atoi(c.QueryParam("months"))
	if err1 != nil || err2 != nil || err3 != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "principal, rate and months are required numbers"})
	}
	if months > maxScheduleMonths {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "months must be at most " + strconv.Itoa(maxScheduleMonths)})
	}

	schedule := finance.GenerateAmortizationSchedule(principal, rate, months)
	if schedule == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: finance.ErrInvalidInput.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"emi":            schedule[0].EMI,
		"total_interest": finance.CalculateTotalInterest(principal, schedule[0].EMI, months),
		"schedule":       schedule,
	})
}

// GetHistory lists terminated loans, preferring the durable archive when one
// is wired.
func (h *FinanceHandler) GetHistory(c echo.Context) error {
	if h.archive != nil {
		records, err := h.archive.ListLoans(c.Request().Context(), 50)
		if err == nil {
			return c.JSON(http.StatusOK, records)
		}
		// fall through to the in-memory history on archive errors
	}
	hist, err := h.svc.LoanHistory(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, hist)
}
