// Package squid holds the literal parameters of the SquidGame deployments
// and parameter revisions on BSC.
package squid

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// BSC mainnet tokens and protocol contracts.
var (
	USDT       = common.HexToAddress("0x55d398326f99059fF775485246999027B3197955")
	BSW        = common.HexToAddress("0x965f527d9159dce6288a2219db51fc6eef120dd1")
	WBNB       = common.HexToAddress("0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c")
	BFG        = common.HexToAddress("0xbb46693ebbea1ac2070e59b4d043b47e2e095f86")
	Oracle     = common.HexToAddress("0x2f48cde4cfd0fb4f5c873291d5cf2dc9e61f2db0")
	MasterChef = common.HexToAddress("0xDbc1A13490deeF9c3C12b44FE77b503c1B061739")
	AutoBSW    = common.HexToAddress("0x97A16ff6Fd63A46bf973671762a39f3780Cda73D")
	HolderPool = common.HexToAddress("0xa4b20183039b2F9881621C3A03732fBF0bfdff10")
	BiswapNFT  = common.HexToAddress("0xD4220B0B196824C2F548a34C47D81737b0F6B5D6")
	BinanceNFT = common.HexToAddress("0x1dDB2C0897daF18632662E71fdD2dbDC0eB3a9Ec")
)

// Treasuries.
var (
	GameTreasury       = common.HexToAddress("0x9D7Fe368a2AB44Bab883485F48a2D07B994C581F")
	BusTreasury        = common.HexToAddress("0xf81FeB1cEBe8bBA613ebB65d7d3dDc3ec6b8204c")
	PlayerTreasury     = common.HexToAddress("0xE209A24abE11a588Fb656498Db23ef409cC46F6c")
	TestTreasury       = common.HexToAddress("0xd3a70caa19d72D9Ed09520594cae4eeA7812Ab51")
	WorkerTreasury     = common.HexToAddress("0x162d6FC25AD9da8eE117Dc9333E66DFD7C40b9eA")
	LaunchpadTreasury  = common.HexToAddress("0x5a63517AF37686B8D1d7DC3F09b226936e419B4E")
	PromoOwner         = common.HexToAddress("0xbafefe87d57d4c5187ed9bd5fab496b38abdd5ff")
	PromoPlayerReceive = common.HexToAddress("0x04F2DdF4FA327323202a9B8714a173D7Af0fE6a0")
)

// Mainnet deployments referenced by hand before they were in a registry file.
var (
	MainnetGame      = common.HexToAddress("0xB08052D1EcD6Eb2Cafd2e829997d39a984B71eC0")
	MainnetMinter    = common.HexToAddress("0x44F7D68e93ACEe685E6d554C967BE5Eb40b12b73")
	MainnetPlayerNFT = common.HexToAddress("0xb00ED7E3671Af2675c551a1C26Ffdcc5b425359b")
	MainnetClaimer   = common.HexToAddress("0xBf51f015BCa535980FdA01dc5c27980651107855")
	MainnetLaunchpad = common.HexToAddress("0x68e258007727AF31EFB3E68500CFB82f425DBae8")
)

// Access control roles.
var (
	TokenMinterRole  = common.HexToHash("0x262c70cb68844873654dc54487b634cb00850c1e13c785cd0d96a2b89b829472")
	GameRole         = common.HexToHash("0x6a64baf327d646d1bca72653e2a075d15fd6ac6d8cbd7f6ee03fc55875e0fa88")
	SeBoostRole      = common.HexToHash("0xfca6bac8781bc66ef196bb85acbfc743e952d50480437ed109b46e883bda687b")
	TokenFreezerRole = crypto.Keccak256Hash([]byte("TOKEN_FREEZER"))
	DefaultAdminRole = common.Hash{}
)

// RoleNames maps role hashes to their contract constant names.
var RoleNames = map[common.Hash]string{
	TokenMinterRole:  "TOKEN_MINTER_ROLE",
	GameRole:         "GAME_ROLE",
	SeBoostRole:      "SE_BOOST_ROLE",
	TokenFreezerRole: "TOKEN_FREEZER",
	DefaultAdminRole: "DEFAULT_ADMIN_ROLE",
}
