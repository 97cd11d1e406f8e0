// Package explorer submits contract sources to a BscScan compatible API.
package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

var (
	ErrVerificationFailed = errors.New("verification failed")
	ErrMissingSource      = errors.New("flattened source not found")
	ErrTimeout            = errors.New("verification still pending")
)

const (
	statusPending  = "Pending in queue"
	statusVerified = "Pass - Verified"
)

type Options struct {
	ApiUrl          string
	ApiKey          string
	CompilerVersion string
	OptimizerRuns   int
	FlattenDir      string
	PollInterval    time.Duration
	MaxPolls        int
}

type Client struct {
	opts   Options
	client *retryablehttp.Client
}

type response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

func NewClient(opts Options, client *retryablehttp.Client) *Client {
	if opts.MaxPolls <= 0 {
		opts.MaxPolls = 30
	}
	return &Client{opts: opts, client: client}
}

// SourcePath is where the flattened source of a contract is expected.
func (c *Client) SourcePath(contractName string) string {
	return filepath.Join(c.opts.FlattenDir, contractName+"Flatten.sol")
}

// VerifyImplementation submits the flattened source of an implementation
// deployed without constructor arguments and waits for the outcome.
func (c *Client) VerifyImplementation(ctx context.Context, address common.Address, contractName string) error {
	source, err := os.ReadFile(c.SourcePath(contractName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingSource, c.SourcePath(contractName))
		}
		return err
	}

	guid, verified, err := c.SubmitSource(ctx, address, contractName, string(source), "")
	if err != nil || verified {
		return err
	}

	return c.wait(ctx, guid, c.CheckStatus)
}

// SubmitSource returns the GUID of the queued verification. A contract that
// is already verified returns verified=true and no GUID.
func (c *Client) SubmitSource(ctx context.Context, address common.Address, contractName, source, constructorArgs string) (string, bool, error) {
	form := url.Values{}
	form.Set("apikey", c.opts.ApiKey)
	form.Set("module", "contract")
	form.Set("action", "verifysourcecode")
	form.Set("contractaddress", address.Hex())
	form.Set("sourceCode", source)
	form.Set("codeformat", "solidity-single-file")
	form.Set("contractname", contractName)
	form.Set("compilerversion", c.opts.CompilerVersion)
	form.Set("optimizationUsed", "1")
	form.Set("runs", fmt.Sprintf("%d", c.opts.OptimizerRuns))
	form.Set("constructorArguements", strings.TrimPrefix(constructorArgs, "0x"))

	zap.L().With(zap.String("address", address.Hex()), zap.String("contract", contractName)).Info("Explorer: Submit source")

	resp, err := c.post(ctx, form)
	if err != nil {
		return "", false, err
	}
	if resp.Status != "1" {
		if alreadyVerified(resp.Result) {
			zap.L().With(zap.String("address", address.Hex())).Info("Explorer: Already verified")
			return "", true, nil
		}
		return "", false, fmt.Errorf("%w: %s", ErrVerificationFailed, resp.Result)
	}

	return resp.Result, false, nil
}

// CheckStatus reports whether the verification identified by guid has
// passed. A pending verification returns false and no error.
func (c *Client) CheckStatus(ctx context.Context, guid string) (bool, error) {
	return c.check(ctx, "checkverifystatus", guid)
}

// VerifyProxy links a proxy to its verified implementation.
func (c *Client) VerifyProxy(ctx context.Context, proxy common.Address) error {
	form := url.Values{}
	form.Set("apikey", c.opts.ApiKey)
	form.Set("module", "contract")
	form.Set("action", "verifyproxycontract")
	form.Set("address", proxy.Hex())

	zap.L().With(zap.String("proxy", proxy.Hex())).Info("Explorer: Verify proxy")

	resp, err := c.post(ctx, form)
	if err != nil {
		return err
	}
	if resp.Status != "1" {
		return fmt.Errorf("%w: %s", ErrVerificationFailed, resp.Result)
	}

	return c.wait(ctx, resp.Result, c.CheckProxyStatus)
}

func (c *Client) CheckProxyStatus(ctx context.Context, guid string) (bool, error) {
	return c.check(ctx, "checkproxyverification", guid)
}

func (c *Client) wait(ctx context.Context, guid string, check func(context.Context, string) (bool, error)) error {
	for i := 0; i < c.opts.MaxPolls; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.opts.PollInterval):
		}

		ok, err := check(ctx, guid)
		if err != nil {
			return err
		}
		if ok {
			zap.L().With(zap.String("guid", guid)).Info("Explorer: Verified")
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrTimeout, guid)
}

func (c *Client) check(ctx context.Context, action, guid string) (bool, error) {
	query := url.Values{}
	query.Set("apikey", c.opts.ApiKey)
	query.Set("module", "contract")
	query.Set("action", action)
	query.Set("guid", guid)

	req, err := retryablehttp.NewRequest(http.MethodGet, c.opts.ApiUrl+"?"+query.Encode(), nil)
	if err != nil {
		return false, err
	}

	resp, err := c.do(req.WithContext(ctx))
	if err != nil {
		return false, err
	}

	switch {
	case resp.Result == statusPending:
		return false, nil
	case resp.Result == statusVerified, resp.Status == "1", alreadyVerified(resp.Result):
		return true, nil
	}

	return false, fmt.Errorf("%w: %s", ErrVerificationFailed, resp.Result)
}

func (c *Client) post(ctx context.Context, form url.Values) (*response, error) {
	req, err := retryablehttp.NewRequest(http.MethodPost, c.opts.ApiUrl, []byte(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req.WithContext(ctx))
}

func (c *Client) do(req *retryablehttp.Request) (*response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("url", c.opts.ApiUrl)).Error("Explorer: Request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer: bad status code %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("explorer: decode response: %w", err)
	}

	return &out, nil
}

func alreadyVerified(result string) bool {
	return strings.Contains(strings.ToLower(result), "already verified")
}
