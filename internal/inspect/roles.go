package inspect

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/squidgame/squid-ops/internal/contract"
	"github.com/squidgame/squid-ops/internal/registry"
	"github.com/squidgame/squid-ops/internal/squid"
	"go.uber.org/zap"
)

// Grant is one role an NFT contract should have given an account.
type Grant struct {
	Contract string
	Address  common.Address
	Role     common.Hash
	Grantee  string
	Account  common.Address
}

func (g Grant) RoleName() string {
	if name, ok := squid.RoleNames[g.Role]; ok {
		return name
	}
	return g.Role.Hex()
}

func (g Grant) String() string {
	return fmt.Sprintf("%s %s -> %s", g.Contract, g.RoleName(), g.Grantee)
}

type RoleCheck struct {
	Grant
	Granted bool
}

// ExpectedGrants lists the grants of setup-roles plus those of whichever
// launchpads and claimer are registered.
func (i *Inspector) ExpectedGrants(ctx context.Context) ([]Grant, error) {
	keys := []string{registry.ProxySquidBusNFT, registry.ProxySquidPlayerNFT, registry.ProxyMainSquidGame, registry.ProxyNFTMinter}
	addrs := make(map[string]common.Address, len(keys))
	for _, key := range keys {
		address, err := i.registry.LookupAddress(ctx, key)
		if err != nil {
			return nil, err
		}
		addrs[key] = address
	}

	bus := func(role common.Hash, grantee string, account common.Address) Grant {
		return Grant{Contract: contract.SquidBusNFTName, Address: addrs[registry.ProxySquidBusNFT], Role: role, Grantee: grantee, Account: account}
	}
	player := func(role common.Hash, grantee string, account common.Address) Grant {
		return Grant{Contract: contract.SquidPlayerNFTName, Address: addrs[registry.ProxySquidPlayerNFT], Role: role, Grantee: grantee, Account: account}
	}

	grants := []Grant{
		bus(squid.TokenMinterRole, contract.NFTMinterName, addrs[registry.ProxyNFTMinter]),
		player(squid.TokenMinterRole, contract.NFTMinterName, addrs[registry.ProxyNFTMinter]),
		player(squid.GameRole, contract.MainSquidGameName, addrs[registry.ProxyMainSquidGame]),
	}

	launchpads := []struct{ key, name string }{
		{registry.Launchpad, contract.LaunchpadNftMysteryBoxesName},
		{registry.LaunchpadV2, contract.LaunchpadMysteryBoxV2Name},
	}
	for _, lp := range launchpads {
		address, ok, err := i.optional(ctx, lp.key)
		if err != nil {
			return nil, err
		}
		if ok {
			grants = append(grants, bus(squid.TokenMinterRole, lp.name, address), player(squid.TokenMinterRole, lp.name, address))
		}
	}

	claimer, ok, err := i.optional(ctx, registry.NFTClaimer)
	if err != nil {
		return nil, err
	}
	if ok {
		grants = append(grants, player(squid.TokenMinterRole, contract.NFTClaimerName, claimer))
	}

	return grants, nil
}

// Roles reads hasRole for every expected grant.
func (i *Inspector) Roles(ctx context.Context) ([]RoleCheck, error) {
	grants, err := i.ExpectedGrants(ctx)
	if err != nil {
		return nil, err
	}

	checks := make([]RoleCheck, 0, len(grants))
	for _, g := range grants {
		nft, err := i.binder.Bind(g.Contract, g.Address)
		if err != nil {
			return nil, err
		}

		granted, err := contract.AccessControl{Contract: nft}.HasRole(ctx, g.Role, g.Account)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g, err)
		}
		if !granted {
			zap.L().With(zap.String("grant", g.String()), zap.String("account", g.Account.Hex())).Warn("Inspect: Role missing")
		}

		checks = append(checks, RoleCheck{Grant: g, Granted: granted})
	}

	return checks, nil
}

// Missing filters the checks down to the grants that are not in place.
func Missing(checks []RoleCheck) []RoleCheck {
	var missing []RoleCheck
	for _, c := range checks {
		if !c.Granted {
			missing = append(missing, c)
		}
	}
	return missing
}
