package squid

import "github.com/ethereum/go-ethereum/common"

type LaunchpadParams struct {
	DealToken common.Address
	Treasury  common.Address
}

func (p LaunchpadParams) ConstructorArgs(player, bus common.Address) []interface{} {
	return []interface{}{player, bus, p.DealToken, p.Treasury}
}

type LaunchpadV2Params struct {
	DealToken  common.Address
	MasterChef common.Address
	AutoBSW    common.Address
	BiswapNFT  common.Address
	StartBlock uint64
	Treasury   common.Address
}

func (p LaunchpadV2Params) ConstructorArgs(player, bus common.Address) []interface{} {
	return []interface{}{player, bus, p.DealToken, p.MasterChef, p.AutoBSW, p.BiswapNFT, p.StartBlock, p.Treasury}
}

var (
	Launchpad = LaunchpadParams{DealToken: BSW, Treasury: LaunchpadTreasury}

	LaunchpadV2 = LaunchpadV2Params{
		DealToken:  BSW,
		MasterChef: MasterChef,
		AutoBSW:    AutoBSW,
		BiswapNFT:  BiswapNFT,
		StartBlock: 13643170,
		Treasury:   LaunchpadTreasury,
	}
)

const (
	LaunchpadDeployGas   = 3000000
	LaunchpadV2DeployGas = 5000000
)
