// Package plan runs declarative contract call lists read with viper.
package plan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
	"github.com/spf13/viper"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/migration"
	"go.uber.org/zap"
)

var ErrInvalid = errors.New("invalid plan")

type Step struct {
	Contract    string        `mapstructure:"contract"`
	RegistryKey string        `mapstructure:"registryKey"`
	Address     string        `mapstructure:"address"`
	Method      string        `mapstructure:"method"`
	Args        []interface{} `mapstructure:"args"`
	GasLimit    uint64        `mapstructure:"gasLimit"`
	Label       string        `mapstructure:"label"`
}

type Plan struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Steps       []Step `mapstructure:"steps"`
}

// Load reads a YAML, JSON or TOML plan. The format follows the extension.
func Load(path string) (*Plan, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}

	var p Plan
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for i := range p.Steps {
		for j, arg := range p.Steps[i].Args {
			p.Steps[i].Args[j] = normalize(arg)
		}
	}

	return &p, p.Validate()
}

func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: %s has no steps", ErrInvalid, p.Name)
	}

	for i, step := range p.Steps {
		switch {
		case step.Contract == "":
			return fmt.Errorf("%w: step %d has no contract", ErrInvalid, i+1)
		case step.Method == "":
			return fmt.Errorf("%w: step %d has no method", ErrInvalid, i+1)
		case (step.RegistryKey == "") == (step.Address == ""):
			return fmt.Errorf("%w: step %d needs exactly one of registryKey and address", ErrInvalid, i+1)
		case step.Address != "" && !common.IsHexAddress(step.Address):
			return fmt.Errorf("%w: step %d address %q", ErrInvalid, i+1, step.Address)
		}
	}

	return nil
}

// Task wraps the plan so it runs like any registered task.
func (p *Plan) Task() migration.Task {
	return migration.Task{
		Name:        slug.Make(p.Name),
		Description: p.Description,
		Run: func(ctx context.Context, r *migration.Runner) error {
			return Apply(ctx, r, p)
		},
	}
}

// Apply sends the steps in order and stops at the first failure.
func Apply(ctx context.Context, r *migration.Runner, p *Plan) error {
	for i, step := range p.Steps {
		address, err := resolve(ctx, r, step)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		c, err := r.Binder().Bind(step.Contract, address)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		label := step.Label
		if label == "" {
			label = fmt.Sprintf("%s step %d %s", p.Name, i+1, step.Method)
		}

		if _, err := c.TransactWith(ctx, contract.TxOptions{Label: label, GasLimit: step.GasLimit}, step.Method, step.Args...); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		zap.L().With(
			zap.Int("step", i+1),
			zap.String("contract", step.Contract),
			zap.String("method", step.Method),
		).Info("Plan: Step applied")
	}

	return nil
}

func resolve(ctx context.Context, r *migration.Runner, step Step) (common.Address, error) {
	if step.Address != "" {
		return common.HexToAddress(step.Address), nil
	}
	return r.Registry().LookupAddress(ctx, step.RegistryKey)
}

// normalize turns the interface keyed maps of YAML documents into string
// keyed maps so tuples can be given by component name.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalize(val)
		}
		return out
	case map[string]interface{}:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	}

	return v
}
