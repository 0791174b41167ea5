package coinbase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ethereum/go-ethereum/common"
)

// CDPAccount is an EVM account held by CDP.
type CDPAccount struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type createAccountRequest struct {
	Name string `json:"name"`
}

// CreateOrGetAccount returns the EVM account called name, creating it on first use.
// EVM accounts are not bound to a network; the same address signs for every chain.
func CreateOrGetAccount(ctx context.Context, client *CDPClient, name string) (*CDPAccount, error) {
	if name == "" {
		return nil, fmt.Errorf("account name is required")
	}

	var account CDPAccount
	err := client.doRequestWithRetry(ctx, http.MethodGet, "/platform/v2/evm/accounts/by-name/"+url.PathEscape(name), nil, &account, false)

	var cdpErr *CDPError
	switch {
	case err == nil:
	case errors.As(err, &cdpErr) && cdpErr.StatusCode == http.StatusNotFound:
		account = CDPAccount{}
		err = client.doRequestWithRetry(ctx, http.MethodPost, "/platform/v2/evm/accounts", createAccountRequest{Name: name}, &account, true)
		if err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
	default:
		return nil, fmt.Errorf("get account: %w", err)
	}

	if !common.IsHexAddress(account.Address) {
		return nil, fmt.Errorf("CDP API returned invalid account address %q", account.Address)
	}
	return &account, nil
}
