package handlers

import (
	"github.com/valyala/fasthttp"

	"bankguard/internal/models"
	"bankguard/internal/services"
	"bankguard/internal/utils"
)

type ClientHandler struct {
	clients      *services.ClientService
	accounts     *services.AccountService
	transactions *services.TransactionService
}

func NewClientHandler(clients *services.ClientService, accounts *services.AccountService, transactions *services.TransactionService) *ClientHandler {
	return &ClientHandler{
		clients:      clients,
		accounts:     accounts,
		transactions: transactions,
	}
}

// Create handles POST /clients.
func (h *ClientHandler) Create(ctx *fasthttp.RequestCtx) {
	var req models.ClientRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeServiceError(ctx, "ClientHandler", err)
		return
	}

	client, err := h.clients.CreateClient(ctx, req.Name, req.Email)
	if err != nil {
		writeServiceError(ctx, "ClientHandler", err)
		return
	}

	writeJSON(ctx, fasthttp.StatusCreated, client)
	utils.LogSuccess("ClientHandler", "Client %s created", client.ID)
}

// List handles GET /clients, optionally filtered with ?name=.
func (h *ClientHandler) List(ctx *fasthttp.RequestCtx) {
	var clients []models.Client
	if name := queryString(ctx, "name"); name != "" {
		clients = h.clients.FindClientsByName(ctx, name)
	} else {
		clients = h.clients.ListClients(ctx)
	}

	if clients == nil {
		clients = []models.Client{}
	}
	writeJSON(ctx, fasthttp.StatusOK, models.ClientListResponse{Clients: clients, Total: len(clients)})
}

// Get handles GET /clients/{id}.
func (h *ClientHandler) Get(ctx *fasthttp.RequestCtx) {
	client, ok := h.clients.FindClientByID(ctx, pathParam(ctx, "id"))
	if !ok {
		writeError(ctx, fasthttp.StatusNotFound, "client not found")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, client)
}

// Update handles PUT /clients/{id}.
func (h *ClientHandler) Update(ctx *fasthttp.RequestCtx) {
	id := pathParam(ctx, "id")

	var req models.ClientRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeServiceError(ctx, "ClientHandler", err)
		return
	}

	if err := h.clients.UpdateClient(ctx, id, req.Name, req.Email); err != nil {
		writeServiceError(ctx, "ClientHandler", err)
		return
	}
	writeMessage(ctx, fasthttp.StatusOK, "client updated")
}

// Delete handles DELETE /clients/{id}.
func (h *ClientHandler) Delete(ctx *fasthttp.RequestCtx) {
	if err := h.clients.DeleteClient(ctx, pathParam(ctx, "id")); err != nil {
		writeServiceError(ctx, "ClientHandler", err)
		return
	}
	writeMessage(ctx, fasthttp.StatusOK, "client deleted")
}

// Report handles GET /clients/{id}/report.
func (h *ClientHandler) Report(ctx *fasthttp.RequestCtx) {
	report, err := h.clients.ClientReport(ctx, pathParam(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, "ClientHandler", err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, newClientReportResponse(report))
}

// Accounts handles GET /clients/{id}/accounts.
func (h *ClientHandler) Accounts(ctx *fasthttp.RequestCtx) {
	accounts := h.accounts.FindAccountsByClient(ctx, pathParam(ctx, "id"))
	writeJSON(ctx, fasthttp.StatusOK, models.NewAccountListResponse(accounts))
}

// Transactions handles GET /clients/{id}/transactions.
func (h *ClientHandler) Transactions(ctx *fasthttp.RequestCtx) {
	txs := h.transactions.TransactionsByClient(ctx, pathParam(ctx, "id"))
	writeJSON(ctx, fasthttp.StatusOK, newTransactionList(txs, ""))
}
