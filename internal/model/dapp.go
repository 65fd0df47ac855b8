package model

import (
	"fmt"
	"strings"
)

// Permission is something a requester may ask the wallet for
type Permission string

const (
	PermissionViewAddress      Permission = "viewAddress"
	PermissionViewBalance      Permission = "viewBalance"
	PermissionRequestSignature Permission = "requestSignature"
)

// unknownDappName is shown when the requester did not introduce itself
const unknownDappName = "Unknown DApp"

// DappRequestContext describes the requester of a handshake.
// It is supplied by the opener and lives only as long as the handshake.
type DappRequestContext struct {
	Name        string       `json:"name"`
	IconURL     string       `json:"iconUrl,omitempty"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// DisplayName returns the requester name or a placeholder.
func (d DappRequestContext) DisplayName() string {
	if strings.TrimSpace(d.Name) == "" {
		return unknownDappName
	}
	return d.Name
}

// IsZero reports whether the opener supplied nothing at all.
func (d DappRequestContext) IsZero() bool {
	return d.Name == "" && d.IconURL == "" && d.Description == "" && len(d.Permissions) == 0
}

// Normalize validates permissions, drops duplicates and applies defaults when none were requested.
func (d *DappRequestContext) Normalize(defaults ...Permission) error {
	if len(d.Permissions) == 0 {
		d.Permissions = append([]Permission(nil), defaults...)
		return nil
	}

	seen := make(map[Permission]bool, len(d.Permissions))
	out := make([]Permission, 0, len(d.Permissions))
	for _, p := range d.Permissions {
		switch p {
		case PermissionViewAddress, PermissionViewBalance, PermissionRequestSignature:
		default:
			return fmt.Errorf("unknown permission %q", p)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	d.Permissions = out
	return nil
}

// ParsePermissions parses a comma separated permission list (URL form).
func ParsePermissions(s string) []Permission {
	var out []Permission
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, Permission(part))
		}
	}
	return out
}
