package config

type NetworkPreset struct {
	RpcUrl      string
	ChainID     int64
	ExplorerApi string
	ExplorerUrl string
	Native      string
}

var Networks = map[string]NetworkPreset{
	"mainnetBSC": {
		RpcUrl:      "https://bsc-dataseed.binance.org",
		ChainID:     56,
		ExplorerApi: "https://api.bscscan.com/api",
		ExplorerUrl: "https://bscscan.com",
		Native:      "BNB",
	},
	"testnetBSC": {
		RpcUrl:      "https://data-seed-prebsc-1-s1.binance.org:8545",
		ChainID:     97,
		ExplorerApi: "https://api-testnet.bscscan.com/api",
		ExplorerUrl: "https://testnet.bscscan.com",
		Native:      "tBNB",
	},
	"localhost": {
		RpcUrl:  "http://127.0.0.1:8545",
		ChainID: 31337,
		Native:  "ETH",
	},
}

func presetFor(network string) NetworkPreset {
	if preset, ok := Networks[network]; ok {
		return preset
	}

	return NetworkPreset{}
}

func (c Config) NativeCurrency() string {
	if preset, ok := Networks[c.Network]; ok && preset.Native != "" {
		return preset.Native
	}

	return "ETH"
}
