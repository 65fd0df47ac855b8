package handler

import (
	"errors"
	"net/http"

	"github.com/AlexZinkM/wallet-connect/internal/model"
	"github.com/AlexZinkM/wallet-connect/solana"
)

// WalletHandler serves the wallet shell
type WalletHandler struct {
	shell *solana.Shell
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(shell *solana.Shell) *WalletHandler {
	return &WalletHandler{shell: shell}
}

// walletError maps shell errors to status codes
func walletError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, solana.ErrNoWallet):
		writeError(w, r, http.StatusNotFound, model.ReasonNoWallet, err)
	case errors.Is(err, solana.ErrInvalidAmount):
		writeError(w, r, http.StatusBadRequest, model.ReasonInvalidAmount, err)
	case errors.Is(err, solana.ErrInvalidAddress):
		writeError(w, r, http.StatusBadRequest, model.ReasonInvalidAddress, err)
	case errors.Is(err, solana.ErrInsufficientFunds):
		writeError(w, r, http.StatusUnprocessableEntity, model.ReasonInsufficientFunds, err)
	case errors.Is(err, solana.ErrCooldownActive):
		writeError(w, r, http.StatusTooManyRequests, model.ReasonCooldownActive, err)
	case errors.Is(err, solana.ErrNetwork):
		writeError(w, r, http.StatusBadGateway, model.ReasonNetwork, err)
	case errors.Is(err, solana.ErrSecretExportDisabled):
		writeError(w, r, http.StatusForbidden, model.CodeSecretExportDisabled, err)
	default:
		writeError(w, r, http.StatusInternalServerError, model.ReasonInternal, err)
	}
}

// Create handles POST /wallet
// @Summary      Create wallet
// @Description  Generates a new keypair, replacing the existing wallet if any
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletResponse
// @Failure      500  {object}  model.ErrorResponse
// @Router       /wallet [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shell.CreateWallet(r.Context())
	if err != nil {
		walletError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// Get handles GET /wallet
// @Summary      Show wallet
// @Description  Returns the wallet address and its QR code (PNG, base64)
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet [get]
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shell.GetWallet(r.Context())
	if err != nil {
		walletError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// Delete handles DELETE /wallet
// @Summary      Delete wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletResponse
// @Router       /wallet [delete]
func (h *WalletHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shell.DeleteWallet(r.Context())
	if err != nil {
		walletError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// ExportSecret handles GET /wallet/secret
// @Summary      Export secret key
// @Description  Reveals the base58 secret key. Disabled unless ALLOW_SECRET_EXPORT=true
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.SecretResponse
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/secret [get]
func (h *WalletHandler) ExportSecret(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shell.ExportSecret(r.Context())
	if err != nil {
		walletError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, r, http.StatusOK, resp)
}

// Balance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  SOL balance with an optional fiat value
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shell.GetBalance(r.Context())
	if err != nil {
		walletError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// Tokens handles GET /wallet/tokens
// @Summary      List token holdings
// @Description  SPL token accounts with registry metadata; unknown mints use placeholders
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.TokensResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/tokens [get]
func (h *WalletHandler) Tokens(w http.ResponseWriter, r *http.Request) {
	resp, err := h.shell.GetTokens(r.Context())
	if err != nil {
		walletError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// Transfer handles POST /wallet/transfer
// @Summary      Send SOL
// @Description  Sends a SOL transfer; balance must cover amount plus the rent exempt minimum
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.TransferRequest  true  "Transfer data"
// @Success      200      {object}  model.TransferResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      415      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /wallet/transfer [post]
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req model.TransferRequest
	if err := decodeBody(r, &req); err != nil {
		bodyError(w, r, model.CodeInvalidRequest, err)
		return
	}

	resp, err := h.shell.SendTransfer(r.Context(), req.ToAddress, req.Amount)
	if err != nil {
		walletError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}
