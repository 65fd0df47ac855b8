package solana

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/AlexZinkM/wallet-connect/internal/model"

	"github.com/skip2/go-qrcode"
)

// CreateWallet generates a new keypair, replacing any existing wallet.
func (s *Shell) CreateWallet(ctx context.Context) (*model.WalletResponse, error) {
	w, err := s.keys.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate wallet: %w", err)
	}

	qrCode, err := generateQRCode(w.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &model.WalletResponse{
		Success: true,
		Message: "Wallet created",
		Address: w.Address,
		QR:      qrCode,
	}, nil
}

// GetWallet returns the address with its QR code
func (s *Shell) GetWallet(ctx context.Context) (*model.WalletResponse, error) {
	address, found, err := s.keys.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet address: %w", err)
	}
	if !found {
		return nil, ErrNoWallet
	}

	qrCode, err := generateQRCode(address)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &model.WalletResponse{
		Success: true,
		Address: address,
		QR:      qrCode,
	}, nil
}

// DeleteWallet removes the wallet; deleting a missing wallet is not an error
func (s *Shell) DeleteWallet(ctx context.Context) (*model.WalletResponse, error) {
	if err := s.keys.Delete(ctx); err != nil {
		return nil, err
	}
	return &model.WalletResponse{Success: true, Message: "Wallet deleted"}, nil
}

// ExportSecret reveals the encoded secret key when export is enabled
func (s *Shell) ExportSecret(ctx context.Context) (*model.SecretResponse, error) {
	if !s.cfg.AllowSecretExport {
		return nil, ErrSecretExportDisabled
	}

	w, found, err := s.keys.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	if !found {
		return nil, ErrNoWallet
	}

	return &model.SecretResponse{
		Address:          w.Address,
		SecretKeyEncoded: w.SecretKeyEncoded,
	}, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	// Encode to base64
	return base64.StdEncoding.EncodeToString(png), nil
}
