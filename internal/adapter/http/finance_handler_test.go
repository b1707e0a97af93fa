package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	finance "tycoon-backend/internal/domain/finance"
	usecase "tycoon-backend/internal/usecase/finance"
)

// --- service mock (function fields, nil = not expected) ---

type financeSvcMock struct {
	financeSnapshot func(ctx context.Context) (finance.OpenFinanceEvent, error)
	takeLoan        func(ctx context.Context, in usecase.OriginateInput) (*finance.Loan, error)
	payEMI          func(ctx context.Context) (*usecase.PaymentResult, error)
	preCloseLoan    func(ctx context.Context) (*usecase.PreCloseResult, error)
	loanHistory     func(ctx context.Context) ([]finance.Loan, error)
}

func (m *financeSvcMock) FinanceSnapshot(ctx context.Context) (finance.OpenFinanceEvent, error) {
	return m.financeSnapshot(ctx)
}
func (m *financeSvcMock) TakeLoan(ctx context.Context, in usecase.OriginateInput) (*finance.Loan, error) {
	return m.takeLoan(ctx, in)
}
func (m *financeSvcMock) PayEMI(ctx context.Context) (*usecase.PaymentResult, error) {
	return m.payEMI(ctx)
}
func (m *financeSvcMock) PreCloseLoan(ctx context.Context) (*usecase.PreCloseResult, error) {
	return m.preCloseLoan(ctx)
}
func (m *financeSvcMock) LoanHistory(ctx context.Context) ([]finance.Loan, error) {
	return m.loanHistory(ctx)
}

type archiveStub struct {
	listLoans func(ctx context.Context, limit int) ([]finance.LoanRecord, error)
}

func (a *archiveStub) AppendLoan(ctx context.Context, rec *finance.LoanRecord) error { return nil }
func (a *archiveStub) ListLoans(ctx context.Context, limit int) ([]finance.LoanRecord, error) {
	return a.listLoans(ctx, limit)
}
func (a *archiveStub) SaveRelationship(ctx context.Context, rec *finance.RelationshipRecord) error {
	return nil
}

// --- helpers ---

func newEchoCtx(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error response: %v (body=%s)", err, rec.Body.String())
	}
	return out
}

// --- GET /api/finance ---

func TestGetFinance(t *testing.T) {
	svc := &financeSvcMock{
		financeSnapshot: func(ctx context.Context) (finance.OpenFinanceEvent, error) {
			return finance.OpenFinanceEvent{CreditScore: 750}, nil
		},
	}
	h := NewFinanceHandler(svc, nil)

	c, rec := newEchoCtx(t, http.MethodGet, "/api/finance", "")
	if err := h.GetFinance(c); err != nil {
		t.Fatalf("GetFinance: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap finance.OpenFinanceEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.CreditScore != 750 {
		t.Fatalf("credit = %d, want 750", snap.CreditScore)
	}
}

// --- POST /api/finance/loans ---

func TestTakeLoan_OK(t *testing.T) {
	var captured usecase.OriginateInput
	svc := &financeSvcMock{
		takeLoan: func(ctx context.Context, in usecase.OriginateInput) (*finance.Loan, error) {
			captured = in
			return &finance.Loan{LoanID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Status: finance.StateActive}, nil
		},
	}
	h := NewFinanceHandler(svc, nil)

	body := `{"bank_id":"city","loan_type_id":"city-quick","amount":60000,"duration_months":12}`
	c, rec := newEchoCtx(t, http.MethodPost, "/api/finance/loans", body)
	if err := h.TakeLoan(c); err != nil {
		t.Fatalf("TakeLoan: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body=%s)", rec.Code, rec.Body.String())
	}
	if captured.BankID != "city" || captured.Amount != 60000 || captured.DurationMonths != 12 {
		t.Fatalf("unexpected input: %+v", captured)
	}
}

func TestTakeLoan_ValidationErrors(t *testing.T) {
	svc := &financeSvcMock{
		takeLoan: func(ctx context.Context, in usecase.OriginateInput) (*finance.Loan, error) {
			t.Fatal("service must not be reached on invalid payloads")
			return nil, nil
		},
	}
	h := NewFinanceHandler(svc, nil)

	cases := []struct {
		name    string
		body    string
		field   string
		msgPart string
	}{
		{"missing bank", `{"loan_type_id":"city-quick","amount":60000,"duration_months":12}`, "BankID", "required"},
		{"zero amount", `{"bank_id":"city","loan_type_id":"city-quick","amount":0,"duration_months":12}`, "Amount", "required"},
		{"fractional cents", `{"bank_id":"city","loan_type_id":"city-quick","amount":100.999,"duration_months":12}`, "Amount", "decimal"},
		{"duration too long", `{"bank_id":"city","loan_type_id":"city-quick","amount":60000,"duration_months":120}`, "DurationMonths", "at most"},
		{"bad collateral id", `{"bank_id":"city","loan_type_id":"city-quick","amount":60000,"duration_months":12,"collateral_id":"XYZ"}`, "CollateralID", "hex"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newEchoCtx(t, http.MethodPost, "/api/finance/loans", tc.body)
			if err := h.TakeLoan(c); err != nil {
				t.Fatalf("TakeLoan: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			resp := decodeErr(t, rec)
			if !containsFieldMsg(resp.Details, tc.field, tc.msgPart) {
				t.Fatalf("details %+v missing %s/%s", resp.Details, tc.field, tc.msgPart)
			}
		})
	}
}

func TestTakeLoan_DomainErrorsMapped(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"active loan exists", finance.ErrActiveLoanExists, http.StatusConflict},
		{"bank locked", finance.ErrBankLocked, http.StatusConflict},
		{"unknown bank", finance.ErrUnknownBank, http.StatusNotFound},
		{"unknown loan type", finance.ErrUnknownLoanType, http.StatusNotFound},
		{"amount out of range", finance.ErrAmountOutOfRange, http.StatusBadRequest},
		{"collateral required", finance.ErrCollateralRequired, http.StatusBadRequest},
	}
	body := `{"bank_id":"city","loan_type_id":"city-quick","amount":60000,"duration_months":12}`
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &financeSvcMock{
				takeLoan: func(ctx context.Context, in usecase.OriginateInput) (*finance.Loan, error) {
					return nil, tc.err
				},
			}
			h := NewFinanceHandler(svc, nil)
			c, rec := newEchoCtx(t, http.MethodPost, "/api/finance/loans", body)
			if err := h.TakeLoan(c); err != nil {
				t.Fatalf("TakeLoan: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

// --- POST /api/finance/loans/emi ---

func TestPayEMI(t *testing.T) {
	svc := &financeSvcMock{
		payEMI: func(ctx context.Context) (*usecase.PaymentResult, error) {
			return &usecase.PaymentResult{Success: true, Amount: 5331, RemainingMonths: 11, Balance: 54_669}, nil
		},
	}
	h := NewFinanceHandler(svc, nil)

	c, rec := newEchoCtx(t, http.MethodPost, "/api/finance/loans/emi", "")
	if err := h.PayEMI(c); err != nil {
		t.Fatalf("PayEMI: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["success"] != true || out["remaining_months"] != float64(11) {
		t.Fatalf("unexpected payload: %v", out)
	}
}

func TestPayEMI_NoActiveLoan(t *testing.T) {
	svc := &financeSvcMock{
		payEMI: func(ctx context.Context) (*usecase.PaymentResult, error) {
			return nil, finance.ErrNoActiveLoan
		},
	}
	h := NewFinanceHandler(svc, nil)

	c, rec := newEchoCtx(t, http.MethodPost, "/api/finance/loans/emi", "")
	if err := h.PayEMI(c); err != nil {
		t.Fatalf("PayEMI: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// --- POST /api/finance/loans/preclose ---

func TestPreClose(t *testing.T) {
	svc := &financeSvcMock{
		preCloseLoan: func(ctx context.Context) (*usecase.PreCloseResult, error) {
			return &usecase.PreCloseResult{AmountPaid: 10_250, Penalty: 250, Balance: 1_750, CreditScore: 758}, nil
		},
	}
	h := NewFinanceHandler(svc, nil)

	c, rec := newEchoCtx(t, http.MethodPost, "/api/finance/loans/preclose", "")
	if err := h.PreClose(c); err != nil {
		t.Fatalf("PreClose: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["penalty"] != float64(250) || out["credit_score"] != float64(758) {
		t.Fatalf("unexpected payload: %v", out)
	}
}

func TestPreClose_InsufficientBalance(t *testing.T) {
	svc := &financeSvcMock{
		preCloseLoan: func(ctx context.Context) (*usecase.PreCloseResult, error) {
			return nil, finance.ErrInsufficientBalance
		},
	}
	h := NewFinanceHandler(svc, nil)

	c, rec := newEchoCtx(t, http.MethodPost, "/api/finance/loans/preclose", "")
	if err := h.PreClose(c); err != nil {
		t.Fatalf("PreClose: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

// --- GET /api/finance/schedule ---

func TestGetSchedule(t *testing.T) {
	h := NewFinanceHandler(&financeSvcMock{}, nil)

	c, rec := newEchoCtx(t, http.MethodGet, "/api/finance/schedule?principal=100000&rate=8.5&months=12", "")
	if err := h.GetSchedule(c); err != nil {
		t.Fatalf("GetSchedule: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	var out struct {
		EMI      float64                 `json:"emi"`
		Schedule []finance.ScheduleEntry `json:"schedule"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Schedule) != 12 {
		t.Fatalf("schedule entries = %d, want 12", len(out.Schedule))
	}
	if out.EMI < 8721 || out.EMI > 8723 {
		t.Fatalf("emi = %v, want ~8722", out.EMI)
	}
}

func TestGetSchedule_BadParams(t *testing.T) {
	h := NewFinanceHandler(&financeSvcMock{}, nil)

	for _, target := range []string{
		"/api/finance/schedule",
		"/api/finance/schedule?principal=abc&rate=8.5&months=12",
		"/api/finance/schedule?principal=0&rate=8.5&months=12",
		"/api/finance/schedule?principal=100000&rate=8.5&months=601",
		"/api/finance/schedule?principal=1000&rate=5&months=2000000000",
	} {
		c, rec := newEchoCtx(t, http.MethodGet, target, "")
		if err := h.GetSchedule(c); err != nil {
			t.Fatalf("GetSchedule: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

// --- GET /api/finance/history ---

func TestGetHistory_PrefersArchive(t *testing.T) {
	arch := &archiveStub{
		listLoans: func(ctx context.Context, limit int) ([]finance.LoanRecord, error) {
			return []finance.LoanRecord{{LoanID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}}, nil
		},
	}
	svc := &financeSvcMock{
		loanHistory: func(ctx context.Context) ([]finance.Loan, error) {
			t.Fatal("in-memory history should not be consulted when the archive works")
			return nil, nil
		},
	}
	h := NewFinanceHandler(svc, arch)

	c, rec := newEchoCtx(t, http.MethodGet, "/api/finance/history", "")
	if err := h.GetHistory(c); err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var records []finance.LoanRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
}

func TestGetHistory_FallsBackToMemory(t *testing.T) {
	arch := &archiveStub{
		listLoans: func(ctx context.Context, limit int) ([]finance.LoanRecord, error) {
			return nil, context.DeadlineExceeded
		},
	}
	svc := &financeSvcMock{
		loanHistory: func(ctx context.Context) ([]finance.Loan, error) {
			return []finance.Loan{{LoanID: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Status: finance.StateCompleted}}, nil
		},
	}
	h := NewFinanceHandler(svc, arch)

	c, rec := newEchoCtx(t, http.MethodGet, "/api/finance/history", "")
	if err := h.GetHistory(c); err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var loans []finance.Loan
	if err := json.Unmarshal(rec.Body.Bytes(), &loans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(loans) != 1 || loans[0].Status != finance.StateCompleted {
		t.Fatalf("unexpected fallback payload: %+v", loans)
	}
}
