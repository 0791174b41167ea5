package coinbase

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"
	"time"

	"gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"
)

// cdpHost is the host named in the uri claim of every token.
const cdpHost = "api.cdp.coinbase.com"

// CDPAuth holds CDP API credentials and issues the JWTs the API expects.
// It is immutable after construction and safe for concurrent use.
type CDPAuth struct {
	// apiKeyName is the CDP API key identifier (e.g., "organizations/xxx/apiKeys/yyy")
	apiKeyName string

	// walletSecret signs wallet operations; empty when the key cannot sign
	walletSecret string

	privateKey crypto.Signer
}

// APIKeyClaims represents the JWT claims structure required by CDP API.
type APIKeyClaims struct {
	*jwt.Claims
	// URI is the full request URI in format: "{METHOD} api.cdp.coinbase.com{path}"
	URI string `json:"uri"`
	// ReqHash is the hex-encoded SHA-256 hash of the request body (optional)
	ReqHash string `json:"reqHash,omitempty"`
}

// NewCDPAuth parses apiKeySecret and returns the credentials.
//
// apiKeySecret is either a PEM block (EC or PKCS8) or the base64 form CDP hands out,
// which holds a DER key or a raw 64-byte Ed25519 key.
func NewCDPAuth(apiKeyName, apiKeySecret, walletSecret string) (*CDPAuth, error) {
	if apiKeyName == "" {
		return nil, fmt.Errorf("apiKeyName must not be empty")
	}

	privateKey, err := parsePrivateKey(apiKeySecret)
	if err != nil {
		return nil, err
	}

	return &CDPAuth{
		apiKeyName:   apiKeyName,
		walletSecret: walletSecret,
		privateKey:   privateKey,
	}, nil
}

func parsePrivateKey(secret string) (crypto.Signer, error) {
	var der []byte
	if block, _ := pem.Decode([]byte(secret)); block != nil {
		der = block.Bytes
	} else {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(secret))
		if err != nil {
			return nil, fmt.Errorf("failed to decode private key: not PEM or base64")
		}
		if len(decoded) == ed25519.PrivateKeySize {
			return ed25519.PrivateKey(decoded), nil
		}
		der = decoded
	}

	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		return k, nil
	case ed25519.PrivateKey:
		return k, nil
	default:
		return nil, fmt.Errorf("unsupported private key type %T: must be ECDSA or Ed25519", key)
	}
}

// GenerateBearerToken returns a two minute token for the Authorization header.
func (a *CDPAuth) GenerateBearerToken(method, path string) (string, error) {
	return a.generateJWT(method, path, nil, 2*time.Minute)
}

// GenerateWalletAuthToken returns a one minute token for the X-Wallet-Auth header.
// bodyHash is the SHA-256 of the request body.
func (a *CDPAuth) GenerateWalletAuthToken(method, path string, bodyHash []byte) (string, error) {
	if a.walletSecret == "" {
		return "", fmt.Errorf("wallet secret is required for signing operations")
	}
	return a.generateJWT(method, path, bodyHash, time.Minute)
}

func (a *CDPAuth) generateJWT(method, path string, bodyHash []byte, expiration time.Duration) (string, error) {
	alg := jose.EdDSA
	if _, ok := a.privateKey.(*ecdsa.PrivateKey); ok {
		alg = jose.ES256
	}

	sig, err := jose.NewSigner(
		jose.SigningKey{Algorithm: alg, Key: a.privateKey},
		(&jose.SignerOptions{}).WithType("JWT").WithHeader("kid", a.apiKeyName),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create JWT signer: %w", err)
	}

	var reqHash string
	if len(bodyHash) > 0 {
		reqHash = hex.EncodeToString(bodyHash)
	}

	now := time.Now()
	claims := &APIKeyClaims{
		Claims: &jwt.Claims{
			Subject:   a.apiKeyName,
			Issuer:    "coinbase-cloud",
			NotBefore: jwt.NewNumericDate(now),
			Expiry:    jwt.NewNumericDate(now.Add(expiration)),
		},
		URI:     fmt.Sprintf("%s %s%s", method, cdpHost, path),
		ReqHash: reqHash,
	}

	token, err := jwt.Signed(sig).Claims(claims).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("failed to serialize JWT: %w", err)
	}
	return token, nil
}
