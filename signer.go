package acssigner

import (
	"fmt"

	"github.com/jayantasamaddar/go-acssigner/acs3"
	"github.com/jayantasamaddar/go-acssigner/auth"
	"github.com/jayantasamaddar/go-acssigner/credentials"
)

// Types
const (
	ACS3 int = iota
)

// A Signer has a method `SignHTTPRequest` to sign the HTTP Request. Usually this is deployed Client side.
func NewSigner(kind int, cred credentials.Credentials, opts ...acs3.Option) (auth.Signer, error) {
	switch kind {
	case ACS3:
		signer, err := acs3.NewACS3Signer(cred, opts...)
		if err != nil {
			return nil, err
		}
		return signer, nil
	default:
		return nil, fmt.Errorf("unsupported signer type %d", kind)
	}
}

// A Verifier has a method `VerifySignature` to validate the HTTP Request signed by a `Signer`. Usually this is deployed Server side.
func NewVerifier(kind int, secrets acs3.SecretProvider, opts ...acs3.VerifierOption) (auth.Verifier, error) {
	switch kind {
	case ACS3:
		verifier, err := acs3.NewVerifier(secrets, opts...)
		if err != nil {
			return nil, err
		}
		return verifier, nil
	default:
		return nil, fmt.Errorf("unsupported verifier type %d", kind)
	}
}
