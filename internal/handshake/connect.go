package handshake

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/wallet-connect/internal/model"
)

const noWalletNotice = "No wallet found. Create a wallet first, then retry from the application."

// AddressReader reads the public address without touching the secret key
type AddressReader interface {
	Address(ctx context.Context) (string, bool, error)
}

// Connect discloses the wallet address to the opener after the owner consents.
type Connect struct {
	session
	addresses AddressReader
	address   string
}

// NewConnect runs the Init step: when no wallet exists the session ends
// right away in Cancelled{NoWallet} but stays viewable with a notice.
func NewConnect(ctx context.Context, opts Options, addresses AddressReader) (*Connect, error) {
	if err := opts.Dapp.Normalize(model.PermissionViewAddress, model.PermissionViewBalance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	c := &Connect{addresses: addresses}
	c.init(model.HandshakeConnect, opts)

	address, found, err := addresses.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet address: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !found {
		c.notice = noWalletNotice
		c.finish(ctx, model.StateCancelled, model.ReasonNoWallet, model.Cancelled())
		return c, nil
	}

	c.address = address
	c.state = model.StateAwaitingUserChoice
	return c, nil
}

// View is what the approval page shows
func (c *Connect) View() model.HandshakeView {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.baseView()
	v.Address = c.address
	return v
}

// Approve posts Connected{address}. The address is read again so a wallet
// deleted in the meantime never gets disclosed.
func (c *Connect) Approve(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Terminal() {
		return ErrHandshakeClosed
	}

	address, found, err := c.addresses.Address(ctx)
	if err != nil {
		return fmt.Errorf("failed to read wallet address: %w", err)
	}
	if !found {
		c.notice = noWalletNotice
		c.finish(ctx, model.StateCancelled, model.ReasonNoWallet, model.Cancelled())
		return nil
	}

	c.address = address
	c.finish(ctx, model.StateApproved, "", model.Connected(address))
	return nil
}

// Cancel posts Cancelled. Popup closure goes through here as well.
func (c *Connect) Cancel(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Terminal() {
		return ErrHandshakeClosed
	}
	c.finish(ctx, model.StateCancelled, "", model.Cancelled())
	return nil
}
