package handler

import "net/http"

func RegisterRoutes(mux *http.ServeMux, accounts *AccountHandler, health *HealthHandler, spec []byte) {
	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /health/ready", health.Readiness)

	mux.HandleFunc("GET /docs", ServeDocs())
	mux.HandleFunc("GET /docs/openapi.yaml", ServeSpec(spec))

	mux.HandleFunc("POST /api/v1/accounts/open", accounts.Open)
	mux.HandleFunc("POST /api/v1/accounts", accounts.Create)
	mux.HandleFunc("GET /api/v1/accounts/{id}", accounts.Get)
	mux.HandleFunc("POST /api/v1/accounts/{id}/deposits", accounts.Deposit)
	mux.HandleFunc("POST /api/v1/accounts/{id}/card", accounts.IssueCard)
	mux.HandleFunc("POST /api/v1/accounts/{id}/transactions", accounts.SubmitTransaction)
}
