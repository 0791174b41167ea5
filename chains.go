package openaction

import (
	"fmt"
	"strings"
)

// Environment holds the chain and contract configuration of one deployment.
type Environment struct {
	// Name identifies the environment (e.g., "mainnet", "testnet").
	Name string

	// ChainID is the EVM chain id.
	ChainID int64

	// BackendURL is the base URL of the relay backend.
	BackendURL string

	// LensHub is the protocol hub contract address.
	LensHub string

	// PublicActProxy is the contract wallet-only actors go through.
	PublicActProxy string

	// Tokens lists well-known fee assets on the chain.
	Tokens []Token
}

var (
	// Mainnet is the Polygon PoS deployment.
	Mainnet = Environment{
		Name:           "mainnet",
		ChainID:        137,
		BackendURL:     "https://api-v2.lens.dev",
		LensHub:        "0xDb46d1Dc155634FbC732f92E853b10B288AD5a1d",
		PublicActProxy: "0x53582b1b7BE71622E7386D736b6baf87749B7a2B",
		Tokens: []Token{
			{Address: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", Symbol: "WMATIC", Decimals: 18},
			{Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", Symbol: "USDC", Decimals: 6},
		},
	}

	// Testnet is the Polygon Amoy deployment.
	Testnet = Environment{
		Name:           "testnet",
		ChainID:        80002,
		BackendURL:     "https://api-v2-amoy.lens.dev",
		LensHub:        "0xA2574D9DdB6A325Ad2Be838Bd854228B80215148",
		// PublicActProxy is not preset on Amoy; set it through configuration.
		Tokens: []Token{
			{Address: "0x41E94Eb019C0762f9Bfcf9Fb1E58725BfB0e7582", Symbol: "USDC", Decimals: 6},
		},
	}
)

// EnvironmentByName returns the environment with the given name.
func EnvironmentByName(name string) (Environment, error) {
	switch strings.ToLower(name) {
	case Mainnet.Name, "polygon":
		return Mainnet, nil
	case Testnet.Name, "amoy", "polygon-amoy":
		return Testnet, nil
	default:
		return Environment{}, fmt.Errorf("%w: %q", ErrUnsupportedChain, name)
	}
}

// EnvironmentByChainID returns the environment deployed on chainID.
func EnvironmentByChainID(chainID int64) (Environment, error) {
	for _, env := range []Environment{Mainnet, Testnet} {
		if env.ChainID == chainID {
			return env, nil
		}
	}
	return Environment{}, fmt.Errorf("%w: chain id %d", ErrUnsupportedChain, chainID)
}

// TokenBySymbol returns the environment's token with the given symbol.
func (e Environment) TokenBySymbol(symbol string) (Token, bool) {
	for _, token := range e.Tokens {
		if strings.EqualFold(token.Symbol, symbol) {
			return token, true
		}
	}
	return Token{}, false
}

// TokenByAddress returns the environment's token at address.
func (e Environment) TokenByAddress(address string) (Token, bool) {
	for _, token := range e.Tokens {
		if strings.EqualFold(token.Address, address) {
			return token, true
		}
	}
	return Token{}, false
}
