// Package credentials holds the access key pair used by the ACS3 signer and the ways of
// obtaining it: explicit values, environment variables, or a profile directory.
package credentials

import (
	"context"
	"strings"
)

// Credentials is an access key pair. The secret is long-lived read-only key material.
type Credentials struct {
	AccessKeyID     string
	AccessKeySecret string
}

// HasKeys reports whether both halves of the key pair are present.
func (c Credentials) HasKeys() bool {
	return strings.TrimSpace(c.AccessKeyID) != "" && c.AccessKeySecret != ""
}

// Provider supplies credentials to signers and clients.
type Provider interface {
	GetCredentials(ctx context.Context) (Credentials, error)
}

// StaticProvider always returns the same credentials.
type StaticProvider struct {
	credentials Credentials
}

func NewStaticProvider(accessKeyID, accessKeySecret string) StaticProvider {
	return StaticProvider{
		credentials: Credentials{
			AccessKeyID:     accessKeyID,
			AccessKeySecret: accessKeySecret,
		},
	}
}

func (p StaticProvider) GetCredentials(_ context.Context) (Credentials, error) {
	return p.credentials, nil
}
