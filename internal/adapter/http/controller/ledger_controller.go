package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/contabank/ledger-core/internal/adapter/http/models"
	"github.com/contabank/ledger-core/internal/commons"
)

type LedgerService interface {
	Deposit(ctx context.Context, req models.DepositRequest) (models.DepositResponse, error)
	Withdraw(ctx context.Context, req models.WithdrawalRequest) (models.WithdrawalResponse, error)
	Transfer(ctx context.Context, req models.TransferRequest) (models.TransferResponse, error)
	Statement(ctx context.Context, accountNumber string, limit int) (models.StatementResponse, error)
}

type LedgerController struct {
	service LedgerService
}

func NewLedgerController(service LedgerService) *LedgerController {
	return &LedgerController{service: service}
}

func (c *LedgerController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("POST /transactions/deposit", wrap(c.deposit))
	mux.Handle("POST /transactions/withdraw", wrap(c.withdraw))
	mux.Handle("POST /transactions/transfer", wrap(c.transfer))
	mux.Handle("GET /accounts/{accountNumber}/statement", wrap(c.statement))
}

func (c *LedgerController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.DepositResponse](codeValidation, "invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	result, err := c.service.Deposit(r.Context(), req)
	if err != nil {
		respondDomainError[models.DepositResponse](w, r, err, start)
		return
	}

	response := commons.SuccessResponse("deposit completed", result)
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *LedgerController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.WithdrawalResponse](codeValidation, "invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	result, err := c.service.Withdraw(r.Context(), req)
	if err != nil {
		respondDomainError[models.WithdrawalResponse](w, r, err, start)
		return
	}

	response := commons.SuccessResponse("withdrawal completed", result)
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *LedgerController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransferResponse](codeValidation, "invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	result, err := c.service.Transfer(r.Context(), req)
	if err != nil {
		respondDomainError[models.TransferResponse](w, r, err, start)
		return
	}

	response := commons.SuccessResponse("transfer completed", result)
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *LedgerController) statement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accountNumber := r.PathValue("accountNumber")
	limit, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("limit")))

	result, err := c.service.Statement(r.Context(), accountNumber, limit)
	if err != nil {
		respondDomainError[models.StatementResponse](w, r, err, start)
		return
	}

	response := commons.SuccessResponse("statement fetched", result)
	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
