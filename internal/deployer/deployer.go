package deployer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/squidgame/squid-ops/internal/abiconv"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/event"
	"go.uber.org/zap"
)

type Kind string

const (
	Transparent Kind = "transparent"
	UUPS        Kind = "uups"
)

var ErrUnknownKind = errors.New("unknown proxy kind")

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Transparent, UUPS:
		return Kind(s), nil
	case "":
		return Transparent, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Deployment is the result of a proxy deployment.
type Deployment struct {
	Proxy          common.Address
	Implementation common.Address
	Admin          common.Address
}

type Deployer struct {
	binder *contract.Binder
	kind   Kind
	admin  common.Address
}

func New(binder *contract.Binder, kind Kind) *Deployer {
	return &Deployer{binder: binder, kind: kind}
}

func (d *Deployer) Kind() Kind {
	return d.kind
}

// ProxyAdmin is the admin of transparent proxies, zero until one is known.
func (d *Deployer) ProxyAdmin() common.Address {
	return d.admin
}

func (d *Deployer) SetProxyAdmin(admin common.Address) {
	d.admin = admin
}

func (d *Deployer) session() *contract.Session {
	return d.binder.Session()
}

// Deploy runs the constructor of name and waits for the receipt.
func (d *Deployer) Deploy(ctx context.Context, name string, args ...interface{}) (common.Address, error) {
	return d.DeployWith(ctx, contract.TxOptions{}, name, args...)
}

func (d *Deployer) DeployWith(ctx context.Context, o contract.TxOptions, name string, args ...interface{}) (common.Address, error) {
	a, err := d.binder.Artifacts().Get(name)
	if err != nil {
		return common.Address{}, err
	}
	code, err := a.Code()
	if err != nil {
		return common.Address{}, err
	}
	converted, err := abiconv.Args(a.ABI.Constructor.Inputs, args)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s constructor: %w", name, err)
	}

	s := d.session()
	if o.Label == "" {
		o.Label = "Deploy " + name
	}
	if o.GasLimit == 0 {
		o.GasLimit = s.DeployGasLimit()
	}
	o.Wait = true

	if s.DryRun() {
		address := s.NextDeployAddress()
		_, _, err := s.Send(ctx, event.Tx{Contract: name, Method: contract.ConstructorMethod}, o, converted, nil)
		return address, err
	}

	backend := s.Chain().Backend()
	meta := event.Tx{Contract: name, Method: contract.ConstructorMethod}
	tx, receipt, err := s.Send(ctx, meta, o, converted, func(opts *bind.TransactOpts) (*types.Transaction, error) {
		_, tx, _, err := bind.DeployContract(opts, a.ABI, code, backend, converted...)
		return tx, err
	})
	if err != nil {
		return common.Address{}, err
	}

	meta.Task = s.Task()
	meta.Label = o.Label
	meta.Address = receipt.ContractAddress
	meta.Nonce = tx.Nonce()
	meta.Hash = tx.Hash()
	meta.Receipt = receipt
	s.Events().EmitEvent(event.ContractDeployedEvent, meta)

	zap.L().With(
		zap.String("contract", name),
		zap.String("address", receipt.ContractAddress.Hex()),
		zap.String("tx", tx.Hash().Hex()),
	).Info("Contract deployed")

	return receipt.ContractAddress, nil
}

// DeployProxy deploys the implementation of name and a proxy running
// initialize(initArgs...) against it. Transparent proxies share one
// ProxyAdmin, deployed on first use.
func (d *Deployer) DeployProxy(ctx context.Context, name string, initArgs ...interface{}) (*Deployment, error) {
	impl, err := d.Deploy(ctx, name)
	if err != nil {
		return nil, err
	}

	logic, err := d.binder.Bind(name, impl)
	if err != nil {
		return nil, err
	}
	data, err := logic.Pack("initialize", initArgs...)
	if err != nil {
		return nil, err
	}

	deployment := &Deployment{Implementation: impl}
	switch d.kind {
	case UUPS:
		deployment.Proxy, err = d.DeployWith(ctx, contract.TxOptions{Label: "Deploy " + name + " proxy"}, contract.ERC1967ProxyName, impl, data)
	case Transparent:
		if deployment.Admin, err = d.ensureProxyAdmin(ctx); err != nil {
			return nil, err
		}
		deployment.Proxy, err = d.DeployWith(ctx, contract.TxOptions{Label: "Deploy " + name + " proxy"}, contract.TransparentUpgradeableProxyName, impl, deployment.Admin, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, d.kind)
	}
	if err != nil {
		return nil, err
	}

	zap.L().With(
		zap.String("contract", name),
		zap.String("proxy", deployment.Proxy.Hex()),
		zap.String("implementation", impl.Hex()),
	).Info("Proxy deployed")

	return deployment, nil
}

func (d *Deployer) ensureProxyAdmin(ctx context.Context) (common.Address, error) {
	if d.admin != (common.Address{}) {
		return d.admin, nil
	}

	admin, err := d.Deploy(ctx, contract.ProxyAdminName)
	if err != nil {
		return common.Address{}, err
	}
	d.admin = admin

	return admin, nil
}

// UpgradeProxy deploys a new implementation of name and points proxy at it.
// It takes two nonces: the deployment and the upgrade call.
func (d *Deployer) UpgradeProxy(ctx context.Context, proxy common.Address, name string) (common.Address, error) {
	return d.UpgradeProxyWith(ctx, contract.TxOptions{}, proxy, name)
}

func (d *Deployer) UpgradeProxyWith(ctx context.Context, o contract.TxOptions, proxy common.Address, name string) (common.Address, error) {
	impl, err := d.DeployWith(ctx, contract.TxOptions{GasLimit: o.GasLimit}, name)
	if err != nil {
		return common.Address{}, err
	}

	if o.Label == "" {
		o.Label = "Upgrade " + name
	}
	switch d.kind {
	case UUPS:
		c, err := d.binder.Bind(name, proxy)
		if err != nil {
			return common.Address{}, err
		}
		_, err = contract.AccessControl{Contract: c}.UpgradeTo(ctx, impl)
		if err != nil {
			return common.Address{}, err
		}
	case Transparent:
		admin, err := d.adminOf(ctx, proxy)
		if err != nil {
			return common.Address{}, err
		}
		proxyAdmin, err := d.binder.ProxyAdmin(admin)
		if err != nil {
			return common.Address{}, err
		}
		if _, err := proxyAdmin.TransactWith(ctx, o, "upgrade", proxy, impl); err != nil {
			return common.Address{}, err
		}
	default:
		return common.Address{}, fmt.Errorf("%w: %q", ErrUnknownKind, d.kind)
	}

	d.session().Chain().ForgetProxy(proxy)
	zap.L().With(
		zap.String("contract", name),
		zap.String("proxy", proxy.Hex()),
		zap.String("implementation", impl.Hex()),
	).Info("Proxy upgraded")

	return impl, nil
}

func (d *Deployer) adminOf(ctx context.Context, proxy common.Address) (common.Address, error) {
	if d.admin != (common.Address{}) {
		return d.admin, nil
	}

	admin, err := d.session().Chain().AdminAddress(ctx, proxy)
	if err != nil {
		return common.Address{}, fmt.Errorf("proxy admin of %s: %w", proxy.Hex(), err)
	}
	return admin, nil
}

func (d *Deployer) ImplementationAddress(ctx context.Context, proxy common.Address) (common.Address, error) {
	return d.session().Chain().ImplementationAddress(ctx, proxy)
}
