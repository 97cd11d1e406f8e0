package chain

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Dial connects to a JSON-RPC endpoint through a retrying HTTP transport.
// Retries happen below the JSON-RPC layer, so a resent eth_sendRawTransaction
// carries the same signed payload and nonce.
func Dial(ctx context.Context, url string, timeout int, retries int, debug bool) (*ethclient.Client, error) {
	if len(url) == 0 {
		return nil, errors.New("bad call missing argument url")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = retries
	retryClient.HTTPClient.Timeout = time.Duration(timeout) * time.Second
	if debug {
		retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			zap.L().With(zap.String("url", req.URL.String()), zap.Int("attempt", attempt)).Debug("Chain: RPC Request")
		}
	}

	rpcClient, err := rpc.DialOptions(ctx, url, rpc.WithHTTPClient(retryClient.StandardClient()))
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("url", url)).Warn("Chain: RPC Failure")
		return nil, err
	}

	return ethclient.NewClient(rpcClient), nil
}
