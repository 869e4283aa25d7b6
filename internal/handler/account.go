package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
	"github.com/josh-kwaku/reimbursement-ledger/internal/logging"
)

type ledgerService interface {
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	CreateAccount(ctx context.Context, name, email string) (*domain.Account, error)
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, error)
	IssueCard(ctx context.Context, accountID int64) (*domain.Account, error)
	SubmitTransaction(ctx context.Context, accountID int64, amount decimal.Decimal, category string) (*domain.Decision, error)
}

type AccountHandler struct {
	ledger ledgerService
}

func NewAccountHandler(ledger ledgerService) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

type openAccountRequest struct {
	Email string `json:"email"`
}

func (r openAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "required"})
	}
	return errs
}

type createAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "required"})
	}
	return errs
}

type depositRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (r depositRequest) Validate() []FieldError {
	var errs []FieldError
	if fe := validateAmount(r.Amount); fe != nil {
		errs = append(errs, *fe)
	}
	return errs
}

type transactionRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Type   *string          `json:"type"`
}

func (r transactionRequest) Validate() []FieldError {
	var errs []FieldError
	if fe := validateAmount(r.Amount); fe != nil {
		errs = append(errs, *fe)
	}
	if r.Type == nil {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	}
	return errs
}

// maxAmountExponent bounds the decimal exponent of request amounts in both
// directions.
const maxAmountExponent = 1000

func validateAmount(amount *decimal.Decimal) *FieldError {
	if amount == nil {
		return &FieldError{Field: "amount", Message: "required"}
	}
	if exp := amount.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return &FieldError{Field: "amount", Message: "out of range"}
	}
	return nil
}

type transactionDTO struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
	Date   string          `json:"date"`
}

type accountDTO struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Balance      decimal.Decimal  `json:"balance"`
	CardNumber   *string          `json:"card_number"`
	Transactions []transactionDTO `json:"transactions"`
}

func toTransactionDTO(t domain.Transaction) transactionDTO {
	return transactionDTO{
		Type:   t.Type,
		Amount: t.Amount,
		Status: string(t.Status),
		Date:   t.DateText(),
	}
}

func toAccountDTO(a *domain.Account) accountDTO {
	txns := make([]transactionDTO, len(a.Transactions))
	for i, t := range a.Transactions {
		txns[i] = toTransactionDTO(t)
	}
	return accountDTO{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Balance:      a.Balance,
		CardNumber:   a.CardNumber,
		Transactions: txns,
	}
}

type createAccountResponse struct {
	Account accountDTO `json:"account"`
	Message string     `json:"message"`
}

type viewAccountResponse struct {
	Account           accountDTO `json:"account"`
	AllowedCategories []string   `json:"allowed_categories"`
}

type depositResponse struct {
	AccountID int64           `json:"account_id"`
	Deposited decimal.Decimal `json:"deposited"`
	Balance   decimal.Decimal `json:"balance"`
	Message   string          `json:"message"`
}

type cardResponse struct {
	AccountID  int64  `json:"account_id"`
	CardNumber string `json:"card_number"`
	Message    string `json:"message"`
}

type transactionResponse struct {
	AccountID int64           `json:"account_id"`
	Status    string          `json:"status"`
	Reason    string          `json:"reason,omitempty"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	Date      string          `json:"date"`
	Message   string          `json:"message"`
}

func accountIDFromPath(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
}

func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondAppError(w, ErrInvalidInput, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.ledger.FindByEmail(r.Context(), req.Email)
	if err != nil {
		logging.FromContext(r.Context()).Info("open account: email not registered", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]int64{"account_id": account.ID})
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondAppError(w, ErrInvalidInput, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.ledger.CreateAccount(r.Context(), req.Name, req.Email)
	if err != nil {
		log := logging.FromContext(r.Context())
		if errors.Is(err, domain.ErrDuplicateEmail) {
			log.Info("create account: email already registered", "error", err)
		} else {
			log.Error("failed to create account", "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, createAccountResponse{
		Account: toAccountDTO(account),
		Message: fmt.Sprintf("Account created: %s (%s), ID #%d", account.Name, account.Email, account.ID),
	})
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := accountIDFromPath(r)
	if !ok {
		RespondAppError(w, ErrAccountNotFound, nil)
		return
	}

	account, err := h.ledger.FindByID(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, viewAccountResponse{
		Account:           toAccountDTO(account),
		AllowedCategories: domain.AllowedCategories(),
	})
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id, ok := accountIDFromPath(r)
	if !ok {
		RespondAppError(w, ErrInvalidInput, nil)
		return
	}

	var req depositRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondAppError(w, ErrInvalidInput, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.ledger.Deposit(r.Context(), id, *req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to deposit", "account_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, depositResponse{
		AccountID: account.ID,
		Deposited: *req.Amount,
		Balance:   account.Balance,
		Message:   fmt.Sprintf("Deposited $%s", req.Amount.StringFixed(2)),
	})
}

func (h *AccountHandler) IssueCard(w http.ResponseWriter, r *http.Request) {
	id, ok := accountIDFromPath(r)
	if !ok {
		RespondAppError(w, ErrInvalidInput, nil)
		return
	}

	account, err := h.ledger.IssueCard(r.Context(), id)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to issue card", "account_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, cardResponse{
		AccountID:  account.ID,
		CardNumber: *account.CardNumber,
		Message:    "Card: " + *account.CardNumber,
	})
}

func (h *AccountHandler) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := accountIDFromPath(r)
	if !ok {
		RespondAppError(w, ErrInvalidInput, nil)
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondAppError(w, ErrInvalidInput, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	decision, err := h.ledger.SubmitTransaction(r.Context(), id, *req.Amount, *req.Type)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to submit transaction", "account_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, transactionResponse{
		AccountID: id,
		Status:    string(decision.Status),
		Reason:    string(decision.Reason),
		Type:      decision.Transaction.Type,
		Amount:    decision.Transaction.Amount,
		Balance:   decision.Balance,
		Date:      decision.Transaction.DateText(),
		Message:   fmt.Sprintf("%s: $%s (%s)", decision.Status, req.Amount.StringFixed(2), *req.Type),
	})
}
