package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/AlexZinkM/wallet-connect/internal/channel"
	"github.com/AlexZinkM/wallet-connect/internal/handshake"
	"github.com/AlexZinkM/wallet-connect/internal/kvstore"
	"github.com/AlexZinkM/wallet-connect/internal/logger"
	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/gorilla/websocket"
)

const (
	// DappDetailsKey is the shared store key an opener may introduce itself under
	DappDetailsKey = "dappDetails"

	// ApprovalTokenHeader carries the wallet-side token of a session.
	// The "token" query parameter is accepted as well.
	ApprovalTokenHeader = "X-Approval-Token"
)

// HandshakeConfig configures the handshake endpoints
type HandshakeConfig struct {
	PublicURL      string   // base URL the approval and channel links are built from
	AllowedOrigins []string // origins accepted on every session channel
}

// HandshakeHandler serves the connect and sign flows
type HandshakeHandler struct {
	registry       *handshake.Registry
	store          kvstore.Store
	publicURL      string
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewHandshakeHandler creates a new HandshakeHandler
func NewHandshakeHandler(registry *handshake.Registry, store kvstore.Store, cfg HandshakeConfig) *HandshakeHandler {
	return &HandshakeHandler{
		registry:       registry,
		store:          store,
		publicURL:      strings.TrimRight(cfg.PublicURL, "/"),
		allowedOrigins: cfg.AllowedOrigins,
		// origins are checked per session before upgrading
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func handshakeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, handshake.ErrNotFound):
		writeError(w, r, http.StatusNotFound, model.CodeHandshakeNotFound, err)
	case errors.Is(err, handshake.ErrApprovalDenied):
		writeError(w, r, http.StatusForbidden, model.CodeApprovalDenied, err)
	case errors.Is(err, handshake.ErrHandshakeClosed):
		writeError(w, r, http.StatusConflict, model.CodeHandshakeClosed, err)
	case errors.Is(err, handshake.ErrNotReady):
		writeError(w, r, http.StatusConflict, model.CodeNotReady, err)
	case errors.Is(err, handshake.ErrInvalidPayload):
		writeError(w, r, http.StatusBadRequest, model.ReasonInvalidPayload, err)
	case errors.Is(err, handshake.ErrInvalidRequest):
		writeError(w, r, http.StatusBadRequest, model.CodeInvalidRequest, err)
	default:
		writeError(w, r, http.StatusInternalServerError, model.ReasonInternal, err)
	}
}

// OpenConnect handles POST /connect
// @Summary      Open a connect request
// @Description  Opens a connect session. The requester may describe itself in the body, in the query (name, icon, description, permissions) or in the shared store record "dappDetails".
// @Tags         handshake
// @Accept       json
// @Produce      json
// @Param        request      body   model.DappRequestContext  false  "Requester details"
// @Param        name         query  string  false  "Requester name"
// @Param        icon         query  string  false  "Requester icon URL"
// @Param        description  query  string  false  "Requester description"
// @Param        permissions  query  string  false  "Comma separated permissions"
// @Success      201  {object}  model.OpenResponse
// @Failure      400  {object}  model.ErrorResponse
// @Failure      415  {object}  model.ErrorResponse
// @Router       /connect [post]
func (h *HandshakeHandler) OpenConnect(w http.ResponseWriter, r *http.Request) {
	dapp, err := h.resolveDapp(r)
	if err != nil {
		bodyError(w, r, model.CodeInvalidRequest, err)
		return
	}

	c, err := h.registry.OpenConnect(r.Context(), dapp, r.Header.Get("Origin"))
	if err != nil {
		handshakeError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info().Str("handshake_id", c.ID()).Str("dapp", dapp.DisplayName()).Msg("Connect request opened")
	h.announce(r, c.ID())
	writeJSON(w, r, http.StatusCreated, h.openResponse(c.ID()))
}

// OpenSign handles POST /sign
// @Summary      Open a sign request
// @Description  Opens a sign session. The payload arrives through the selected source: "url" (base64 payload and kind in the query), "store" (record written with PUT /pending-payload) or "message" (signTransaction / signMessage sent on the session channel).
// @Tags         handshake
// @Accept       json
// @Produce      json
// @Param        request  body   model.DappRequestContext  false  "Requester details"
// @Param        source   query  string  false  "url, store or message (default)"
// @Param        kind     query  string  false  "transaction or message (url source)"
// @Param        payload  query  string  false  "base64 payload (url source)"
// @Success      201  {object}  model.OpenResponse
// @Failure      400  {object}  model.ErrorResponse
// @Failure      415  {object}  model.ErrorResponse
// @Router       /sign [post]
func (h *HandshakeHandler) OpenSign(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	source, err := handshake.ParseSource(query.Get("source"))
	if err != nil {
		handshakeError(w, r, err)
		return
	}

	dapp, err := h.resolveDapp(r)
	if err != nil {
		bodyError(w, r, model.CodeInvalidRequest, err)
		return
	}

	s, err := h.registry.OpenSign(r.Context(), handshake.SignRequest{
		Dapp:    dapp,
		Origin:  r.Header.Get("Origin"),
		Source:  source,
		Kind:    query.Get("kind"),
		Payload: query.Get("payload"),
	})
	if err != nil {
		handshakeError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info().Str("handshake_id", s.ID()).Str("source", string(source)).Msg("Sign request opened")
	h.announce(r, s.ID())
	writeJSON(w, r, http.StatusCreated, h.openResponse(s.ID()))
}

// PutPendingPayload handles PUT /pending-payload
// @Summary      Leave a payload for a store-sourced sign request
// @Tags         handshake
// @Accept       json
// @Param        request  body  model.PendingPayload  true  "Payload with kind tag"
// @Success      204
// @Failure      400  {object}  model.ErrorResponse
// @Failure      415  {object}  model.ErrorResponse
// @Router       /pending-payload [put]
func (h *HandshakeHandler) PutPendingPayload(w http.ResponseWriter, r *http.Request) {
	var p model.PendingPayload
	if err := decodeBody(r, &p); err != nil {
		bodyError(w, r, model.ReasonInvalidPayload, err)
		return
	}
	if err := handshake.StorePending(r.Context(), h.store, p); err != nil {
		handshakeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutDappDetails handles PUT /dapp-details
// @Summary      Introduce the requester through the shared store
// @Tags         handshake
// @Accept       json
// @Param        request  body  model.DappRequestContext  true  "Requester details"
// @Success      204
// @Failure      400  {object}  model.ErrorResponse
// @Failure      415  {object}  model.ErrorResponse
// @Router       /dapp-details [put]
func (h *HandshakeHandler) PutDappDetails(w http.ResponseWriter, r *http.Request) {
	var dapp model.DappRequestContext
	if err := decodeBody(r, &dapp); err != nil {
		bodyError(w, r, model.CodeInvalidRequest, err)
		return
	}

	data, err := json.Marshal(dapp)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, model.ReasonInternal, err)
		return
	}
	if err := h.store.Set(r.Context(), DappDetailsKey, data); err != nil {
		writeError(w, r, http.StatusInternalServerError, model.ReasonInternal, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// View handles GET /handshakes/{id}
// @Summary      Show a pending request
// @Description  What the approval popup renders: requester, permissions, state and, for sign requests, the payload
// @Tags         handshake
// @Produce      json
// @Param        id                path      string  true   "Handshake id"
// @Param        X-Approval-Token  header    string  false  "Approval token"
// @Param        token             query     string  false  "Approval token"
// @Success      200  {object}  model.HandshakeView
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /handshakes/{id} [get]
func (h *HandshakeHandler) View(w http.ResponseWriter, r *http.Request) {
	hs, err := h.authorize(r)
	if err != nil {
		handshakeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hs.View())
}

// Approve handles POST /handshakes/{id}/approve
// @Summary      Approve a request
// @Tags         handshake
// @Produce      json
// @Param        id                path      string  true   "Handshake id"
// @Param        X-Approval-Token  header    string  false  "Approval token"
// @Param        token             query     string  false  "Approval token"
// @Success      200  {object}  model.HandshakeView
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /handshakes/{id}/approve [post]
func (h *HandshakeHandler) Approve(w http.ResponseWriter, r *http.Request) {
	hs, err := h.authorize(r)
	if err != nil {
		handshakeError(w, r, err)
		return
	}
	if err := hs.Approve(r.Context()); err != nil {
		handshakeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hs.View())
}

// Cancel handles POST /handshakes/{id}/cancel
// @Summary      Cancel a request
// @Tags         handshake
// @Produce      json
// @Param        id                path      string  true   "Handshake id"
// @Param        X-Approval-Token  header    string  false  "Approval token"
// @Param        token             query     string  false  "Approval token"
// @Success      200  {object}  model.HandshakeView
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /handshakes/{id}/cancel [post]
func (h *HandshakeHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	hs, err := h.authorize(r)
	if err != nil {
		handshakeError(w, r, err)
		return
	}
	if err := hs.Cancel(r.Context()); err != nil {
		handshakeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hs.View())
}

// Close handles DELETE /handshakes/{id}
// @Summary      Close the popup
// @Description  An undecided request is cancelled. Either way the request is dismissed; its result stays available to the opener for a minute.
// @Tags         handshake
// @Param        id                path    string  true   "Handshake id"
// @Param        X-Approval-Token  header  string  false  "Approval token"
// @Param        token             query   string  false  "Approval token"
// @Success      204
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /handshakes/{id} [delete]
func (h *HandshakeHandler) Close(w http.ResponseWriter, r *http.Request) {
	hs, err := h.authorize(r)
	if err != nil {
		handshakeError(w, r, err)
		return
	}
	if err := h.registry.Close(r.Context(), hs.ID()); err != nil {
		handshakeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostMessage handles POST /handshakes/{id}/messages
// @Summary      Send a message to a request
// @Description  HTTP fallback for the channel: {type: "signTransaction"|"signMessage", data}
// @Tags         handshake
// @Accept       json
// @Param        id       path  string               true  "Handshake id"
// @Param        request  body  model.OpenerMessage  true  "Message"
// @Success      202
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Failure      409  {object}  model.ErrorResponse
// @Failure      415  {object}  model.ErrorResponse
// @Router       /handshakes/{id}/messages [post]
func (h *HandshakeHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	hs, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		handshakeError(w, r, err)
		return
	}
	if !h.originAllowed(hs, r) {
		writeError(w, r, http.StatusForbidden, model.CodeOriginNotAllowed, errors.New("origin not allowed"))
		return
	}

	var msg model.OpenerMessage
	if err := decodeBody(r, &msg); err != nil {
		bodyError(w, r, model.ReasonInvalidPayload, err)
		return
	}

	if err := hs.Mailbox().Deliver(msg); err != nil {
		switch {
		case errors.Is(err, channel.ErrClosed):
			writeError(w, r, http.StatusConflict, model.CodeHandshakeClosed, err)
		case errors.Is(err, channel.ErrInboxFull):
			writeError(w, r, http.StatusTooManyRequests, model.CodeInvalidRequest, err)
		default:
			writeError(w, r, http.StatusInternalServerError, model.ReasonInternal, err)
		}
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Channel handles GET /handshakes/{id}/channel
// @Summary      Session channel (websocket)
// @Description  The opener receives the single result envelope here and may send messages
// @Tags         handshake
// @Param        id   path  string  true  "Handshake id"
// @Success      101
// @Failure      403  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /handshakes/{id}/channel [get]
func (h *HandshakeHandler) Channel(w http.ResponseWriter, r *http.Request) {
	hs, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		handshakeError(w, r, err)
		return
	}
	if !h.originAllowed(hs, r) {
		writeError(w, r, http.StatusForbidden, model.CodeOriginNotAllowed, errors.New("origin not allowed"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		logger.FromContext(r.Context()).Warn().Err(err).Msg("Failed to upgrade channel")
		return
	}
	defer conn.Close()

	if err := channel.Serve(r.Context(), conn, hs.Mailbox()); err != nil {
		logger.FromContext(r.Context()).Info().Err(err).Str("handshake_id", hs.ID()).Msg("Channel closed")
	}
}

// authorize resolves the session of a wallet-side request
func (h *HandshakeHandler) authorize(r *http.Request) (handshake.Handshake, error) {
	token := r.Header.Get(ApprovalTokenHeader)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	return h.registry.Authorize(r.PathValue("id"), token)
}

// announce logs the approval link for the wallet owner
func (h *HandshakeHandler) announce(r *http.Request, id string) {
	token, err := h.registry.ApprovalToken(id)
	if err != nil {
		// already swept
		return
	}
	logger.FromContext(r.Context()).Info().
		Str("handshake_id", id).
		Str("approval_url", h.approvalURL(id, token)).
		Msg("Approval required")
}

// originAllowed accepts the origin that opened the session or a configured one
func (h *HandshakeHandler) originAllowed(hs handshake.Handshake, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin != "" && slices.Contains(h.allowedOrigins, origin) {
		return true
	}
	if hs.Origin() != "" {
		return origin == hs.Origin()
	}
	return len(h.allowedOrigins) == 0 || origin == ""
}

// resolveDapp reads requester details from the body, the query or the shared store, in that order
func (h *HandshakeHandler) resolveDapp(r *http.Request) (model.DappRequestContext, error) {
	var dapp model.DappRequestContext
	if err := decodeBody(r, &dapp); err != nil {
		return dapp, err
	}
	if !dapp.IsZero() {
		return dapp, nil
	}

	query := r.URL.Query()
	dapp = model.DappRequestContext{
		Name:        query.Get("name"),
		IconURL:     query.Get("icon"),
		Description: query.Get("description"),
		Permissions: model.ParsePermissions(query.Get("permissions")),
	}
	if !dapp.IsZero() {
		return dapp, nil
	}

	data, err := h.store.Get(r.Context(), DappDetailsKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return dapp, nil
	}
	if err != nil {
		return dapp, err
	}
	if err := json.Unmarshal(data, &dapp); err != nil {
		logger.FromContext(r.Context()).Warn().Err(err).Msg("Ignoring malformed dapp details")
		return model.DappRequestContext{}, nil
	}
	return dapp, nil
}

func (h *HandshakeHandler) approvalURL(id, token string) string {
	return h.publicURL + "/handshakes/" + id + "?" + url.Values{"token": {token}}.Encode()
}

func (h *HandshakeHandler) openResponse(id string) model.OpenResponse {
	channelURL := h.publicURL + "/handshakes/" + id + "/channel"
	switch {
	case strings.HasPrefix(channelURL, "https://"):
		channelURL = "wss://" + strings.TrimPrefix(channelURL, "https://")
	case strings.HasPrefix(channelURL, "http://"):
		channelURL = "ws://" + strings.TrimPrefix(channelURL, "http://")
	}
	return model.OpenResponse{ID: id, ChannelURL: channelURL}
}
