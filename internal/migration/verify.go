package migration

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrNoVerifier = errors.New("no explorer configured")

func init() {
	Register(Task{Name: "verify", Description: "Verify the implementations behind the configured proxies on the explorer", Run: func(ctx context.Context, r *Runner) error {
		return r.Verify(ctx, r.verifyKeys)
	}})
}

func contractForProxyKey(key string) (string, bool) {
	for _, keys := range proxied {
		if keys.proxy == key {
			return keys.contract, true
		}
	}
	return "", false
}

// Verify resolves the implementation behind each registered proxy key,
// submits its flattened source and links the proxy to it.
func (r *Runner) Verify(ctx context.Context, proxies []string) error {
	if r.verifier == nil {
		return ErrNoVerifier
	}

	for _, key := range proxies {
		name, ok := contractForProxyKey(key)
		if !ok {
			return fmt.Errorf("%s is not a proxy key", key)
		}

		proxy, err := r.lookup(ctx, key)
		if err != nil {
			return err
		}
		impl, err := r.deployer.ImplementationAddress(ctx, proxy)
		if err != nil {
			return err
		}

		logger := zap.L().With(zap.String("contract", name), zap.String("proxy", proxy.Hex()), zap.String("implementation", impl.Hex()))
		if r.DryRun() {
			logger.Info("Dry run: verification not submitted")
			continue
		}

		logger.Info("Verify: Implementation")
		if err := r.verifier.VerifyImplementation(ctx, impl, name); err != nil {
			return fmt.Errorf("verify %s: %w", name, err)
		}
		if err := r.verifier.VerifyProxy(ctx, proxy); err != nil {
			return fmt.Errorf("verify %s proxy: %w", name, err)
		}
	}

	return nil
}
