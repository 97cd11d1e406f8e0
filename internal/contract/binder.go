package contract

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/squidgame/squid-ops/internal/artifact"
)

const (
	SquidBusNFTName                 = "SquidBusNFT"
	SquidPlayerNFTName              = "SquidPlayerNFT"
	MainSquidGameName               = "MainSquidGame"
	NFTMinterName                   = "NFTMinter"
	SquidWorkerGameName             = "SquidWorkerGame"
	LaunchpadNftMysteryBoxesName    = "LaunchpadNftMysteryBoxes"
	LaunchpadMysteryBoxV2Name       = "LaunchpadMysteryBoxV2"
	NFTClaimerName                  = "NFTClaimer"
	ProxyAdminName                  = "ProxyAdmin"
	TransparentUpgradeableProxyName = "TransparentUpgradeableProxy"
	ERC1967ProxyName                = "ERC1967Proxy"
)

// Binder attaches deployed addresses to their artifact ABIs.
type Binder struct {
	artifacts artifact.Store
	session   *Session
}

func NewBinder(artifacts artifact.Store, session *Session) *Binder {
	return &Binder{artifacts, session}
}

func (b *Binder) Session() *Session {
	return b.session
}

func (b *Binder) Artifacts() artifact.Store {
	return b.artifacts
}

func (b *Binder) Bind(name string, address common.Address) (*Contract, error) {
	a, err := b.artifacts.Get(name)
	if err != nil {
		return nil, err
	}

	return New(name, address, a.ABI, b.session), nil
}

func (b *Binder) SquidBusNFT(address common.Address) (*SquidBusNFT, error) {
	c, err := b.Bind(SquidBusNFTName, address)
	if err != nil {
		return nil, err
	}
	return &SquidBusNFT{AccessControl{c}}, nil
}

func (b *Binder) SquidPlayerNFT(address common.Address) (*SquidPlayerNFT, error) {
	c, err := b.Bind(SquidPlayerNFTName, address)
	if err != nil {
		return nil, err
	}
	return &SquidPlayerNFT{AccessControl{c}}, nil
}

func (b *Binder) MainSquidGame(address common.Address) (*MainSquidGame, error) {
	c, err := b.Bind(MainSquidGameName, address)
	if err != nil {
		return nil, err
	}
	return &MainSquidGame{c}, nil
}

func (b *Binder) NFTMinter(address common.Address) (*NFTMinter, error) {
	c, err := b.Bind(NFTMinterName, address)
	if err != nil {
		return nil, err
	}
	return &NFTMinter{c}, nil
}

func (b *Binder) SquidWorkerGame(address common.Address) (*SquidWorkerGame, error) {
	c, err := b.Bind(SquidWorkerGameName, address)
	if err != nil {
		return nil, err
	}
	return &SquidWorkerGame{c}, nil
}

// Launchpad binds either launchpad version; both expose the same views.
func (b *Binder) Launchpad(name string, address common.Address) (*Launchpad, error) {
	c, err := b.Bind(name, address)
	if err != nil {
		return nil, err
	}
	return &Launchpad{c}, nil
}

func (b *Binder) NFTClaimer(address common.Address) (*NFTClaimer, error) {
	c, err := b.Bind(NFTClaimerName, address)
	if err != nil {
		return nil, err
	}
	return &NFTClaimer{c}, nil
}

func (b *Binder) ProxyAdmin(address common.Address) (*ProxyAdmin, error) {
	c, err := b.Bind(ProxyAdminName, address)
	if err != nil {
		return nil, err
	}
	return &ProxyAdmin{c}, nil
}
