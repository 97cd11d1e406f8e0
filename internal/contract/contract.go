package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/squidgame/squid-ops/internal/abiconv"
	"github.com/squidgame/squid-ops/internal/event"
)

var (
	ErrUnknownMethod   = errors.New("unknown method")
	ErrAmbiguousMethod = errors.New("ambiguous overloaded method")
)

// Contract is a deployed contract bound to its artifact ABI.
type Contract struct {
	Name    string
	Address common.Address
	ABI     abi.ABI

	bound   *bind.BoundContract
	session *Session
}

func New(name string, address common.Address, contractAbi abi.ABI, session *Session) *Contract {
	backend := session.Chain().Backend()
	return &Contract{
		Name:    name,
		Address: address,
		ABI:     contractAbi,
		bound:   bind.NewBoundContract(address, contractAbi, backend, backend, backend),
		session: session,
	}
}

func (c *Contract) Session() *Session {
	return c.session
}

// Method resolves name to an ABI method taking nargs inputs. Overloads are
// picked by arity; the go-ethereum suffixed name ("addNewGame0") also works.
func (c *Contract) Method(name string, nargs int) (abi.Method, error) {
	if m, ok := c.ABI.Methods[name]; ok && len(m.Inputs) == nargs {
		return m, nil
	}

	var matches []abi.Method
	for _, m := range c.ABI.Methods {
		if m.RawName == name && len(m.Inputs) == nargs {
			matches = append(matches, m)
		}
	}

	switch len(matches) {
	case 0:
		return abi.Method{}, fmt.Errorf("%w: %s.%s with %d arguments", ErrUnknownMethod, c.Name, name, nargs)
	case 1:
		return matches[0], nil
	}

	return abi.Method{}, fmt.Errorf("%w: %s.%s with %d arguments, use the signature name", ErrAmbiguousMethod, c.Name, name, nargs)
}

func (c *Contract) Transact(ctx context.Context, method string, args ...interface{}) (*types.Transaction, error) {
	return c.TransactWith(ctx, TxOptions{}, method, args...)
}

func (c *Contract) TransactWith(ctx context.Context, o TxOptions, method string, args ...interface{}) (*types.Transaction, error) {
	m, err := c.Method(method, len(args))
	if err != nil {
		return nil, err
	}

	converted, err := abiconv.Args(m.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.Name, m.Sig, err)
	}

	meta := event.Tx{Contract: c.Name, Address: c.Address, Method: m.RawName}
	tx, _, err := c.session.Send(ctx, meta, o, converted, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.bound.Transact(opts, m.Name, converted...)
	})

	return tx, err
}

// Call runs a read-only method and returns the decoded outputs.
func (c *Contract) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	m, err := c.Method(method, len(args))
	if err != nil {
		return nil, err
	}

	converted, err := abiconv.Args(m.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.Name, m.Sig, err)
	}

	var out []interface{}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, m.Name, converted...); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.Name, m.Sig, err)
	}

	return out, nil
}

// CallInto runs a read-only method and assigns its outputs to dst.
func (c *Contract) CallInto(ctx context.Context, dst interface{}, method string, args ...interface{}) error {
	m, err := c.Method(method, len(args))
	if err != nil {
		return err
	}

	out, err := c.Call(ctx, m.Name, args...)
	if err != nil {
		return err
	}

	if err := abiconv.AssignOutputs(dst, m.Outputs, out); err != nil {
		return fmt.Errorf("%s.%s: %w", c.Name, m.Sig, err)
	}
	return nil
}

// Pack returns the calldata of method with converted args.
func (c *Contract) Pack(method string, args ...interface{}) ([]byte, error) {
	m, err := c.Method(method, len(args))
	if err != nil {
		return nil, err
	}

	converted, err := abiconv.Args(m.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.Name, m.Sig, err)
	}

	packed, err := m.Inputs.Pack(converted...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.Name, m.Sig, err)
	}

	return append(append([]byte{}, m.ID...), packed...), nil
}
