package acssigner

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayantasamaddar/go-acssigner/acs3"
	"github.com/jayantasamaddar/go-acssigner/credentials"
)

// Signer is usually deployed client-side
func Test_Signer(t *testing.T) {
	signer, err := NewSigner(ACS3, credentials.Credentials{AccessKeyID: "LTAI5tEXAMPLE", AccessKeySecret: "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"})
	require.NoError(t, err)
	assert.IsType(t, &acs3.ACS3{}, signer)

	_, err = NewSigner(ACS3, credentials.Credentials{})
	assert.ErrorIs(t, err, acs3.ErrMissingCredentials)

	_, err = NewSigner(42, credentials.Credentials{AccessKeyID: "a", AccessKeySecret: "b"})
	assert.Error(t, err)
}

// Verifier is usually deployed server-side
func Test_Verifier(t *testing.T) {
	verifier, err := NewVerifier(ACS3, acs3.StaticSecrets{"LTAI5tEXAMPLE": "secret"})
	require.NoError(t, err)
	assert.IsType(t, &acs3.Verifier{}, verifier)

	_, err = NewVerifier(42, acs3.StaticSecrets{})
	assert.Error(t, err)
}

func Test_SignAndVerify(t *testing.T) {
	signer, err := NewSigner(ACS3, credentials.Credentials{AccessKeyID: "LTAI5tEXAMPLE", AccessKeySecret: "secret"})
	require.NoError(t, err)
	verifier, err := NewVerifier(ACS3, acs3.StaticSecrets{"LTAI5tEXAMPLE": "secret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "http://farui.cn-beijing.aliyuncs.com/ws1/farui/search/case/fulltext", strings.NewReader(`{"workspaceId":"ws1"}`))
	req.Header.Set("Content-Type", "application/json")
	require.NoError(t, signer.SignHTTPRequest(req))
	assert.NoError(t, verifier.VerifySignature(req))

	req.Header.Set("X-Acs-Version", "2019-01-01")
	assert.ErrorIs(t, verifier.VerifySignature(req), acs3.ErrSignatureMismatch)
}
