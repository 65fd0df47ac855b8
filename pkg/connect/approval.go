package connect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/AlexZinkM/wallet-connect/internal/model"
)

// approvalTokenHeader must match what the agent reads
const approvalTokenHeader = "X-Approval-Token"

// ErrInvalidApprovalURL is returned for a link that is not an approval link
var ErrInvalidApprovalURL = errors.New("not an approval link")

// Approval is the wallet owner's handle on one pending request. The agent
// logs its link, with the approval token, when the request is opened.
type Approval struct {
	client *Client
	id     string
	token  string
}

// Approval returns the handle of request id
func (c *Client) Approval(id, token string) *Approval {
	return &Approval{client: c, id: id, token: token}
}

// ParseApproval builds a handle from an approval link such as
// http://127.0.0.1:8080/handshakes/<id>?token=<token>
func ParseApproval(link string, opts ...Option) (*Approval, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidApprovalURL, err)
	}
	base, id, ok := strings.Cut(u.Path, "/handshakes/")
	if !ok || id == "" || strings.Contains(id, "/") || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidApprovalURL, u.Path)
	}
	token := u.Query().Get("token")
	if token == "" {
		return nil, fmt.Errorf("%w: token is missing", ErrInvalidApprovalURL)
	}
	return New(u.Scheme+"://"+u.Host+base, opts...).Approval(id, token), nil
}

// ID returns the request id
func (a *Approval) ID() string { return a.id }

// View returns what the owner is asked to decide on
func (a *Approval) View(ctx context.Context) (model.HandshakeView, error) {
	return a.call(ctx, http.MethodGet, "")
}

// Approve grants the request
func (a *Approval) Approve(ctx context.Context) (model.HandshakeView, error) {
	return a.call(ctx, http.MethodPost, "/approve")
}

// Cancel refuses the request
func (a *Approval) Cancel(ctx context.Context) (model.HandshakeView, error) {
	return a.call(ctx, http.MethodPost, "/cancel")
}

// Dismiss closes the popup. An undecided request is cancelled.
func (a *Approval) Dismiss(ctx context.Context) error {
	if err := a.client.doWith(ctx, http.MethodDelete, a.path(""), a.header(), nil, nil); err != nil {
		return fmt.Errorf("failed to dismiss request %s: %w", a.id, err)
	}
	return nil
}

func (a *Approval) call(ctx context.Context, method, action string) (model.HandshakeView, error) {
	var v model.HandshakeView
	if err := a.client.doWith(ctx, method, a.path(action), a.header(), nil, &v); err != nil {
		return v, fmt.Errorf("failed to %s request %s: %w", verb(action), a.id, err)
	}
	return v, nil
}

func (a *Approval) path(action string) string {
	return "/handshakes/" + url.PathEscape(a.id) + action
}

func (a *Approval) header() http.Header {
	h := http.Header{}
	h.Set(approvalTokenHeader, a.token)
	return h
}

func verb(action string) string {
	if action == "" {
		return "view"
	}
	return strings.TrimPrefix(action, "/")
}
