package evm

import "errors"

var (
	// ErrInvalidKey indicates a missing or malformed private key.
	ErrInvalidKey = errors.New("evm: invalid private key")

	// ErrInvalidKeystore indicates an unreadable or undecryptable keystore file.
	ErrInvalidKeystore = errors.New("evm: invalid keystore file")

	// ErrInvalidMnemonic indicates an invalid BIP39 mnemonic phrase.
	ErrInvalidMnemonic = errors.New("evm: invalid mnemonic phrase")

	// ErrInvalidChainID indicates a missing chain id or a call for another chain.
	ErrInvalidChainID = errors.New("evm: invalid chain id")
)
