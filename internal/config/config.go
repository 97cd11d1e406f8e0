package config

import (
	"errors"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/squidgame/squid-ops/internal/log"
	"go.uber.org/zap"
)

type Config struct {
	Env     string
	Network string
	Debug   bool
	LogPath string

	PrivateKey string

	ArtifactsDir string
	RegistryDir  string
	JournalDir   string
	FlattenDir   string
	IdsFile      string

	ProxyKind string

	HealthPort string
	SentryDsn  string

	Rpc       RpcConfig
	Gas       GasConfig
	Explorer  ExplorerConfig
	GasReport GasReportConfig
	Aws       AwsConfig
}

type RpcConfig struct {
	Url     string
	ChainID int64
	Timeout int
	Retries int
	Debug   bool
}

type GasConfig struct {
	DeployLimit    uint64
	CallLimit      uint64
	PriceGwei      int
	WaitReceipts   bool
	ConfirmTimeout int
}

type ExplorerConfig struct {
	ApiUrl          string
	ApiKey          string
	BrowserUrl      string
	CompilerVersion string
	OptimizerRuns   int
	PollInterval    int
	VerifyKeys      []string
}

type GasReportConfig struct {
	GasPriceGwei int
	NativeUsd    float64
}

type AwsConfig struct {
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	Prefix    string
}

var ErrMissingPrivateKey = errors.New("PRIVATE_KEY is not set")

func Init(name string) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		zap.L().With(zap.Error(err)).Fatal("Unable to init config")
	}

	initLogger(name)
}

func initLogger(name string) {
	cfg := Get()
	logPath := cfg.LogPath
	if logPath == "" {
		logPath = name + ".log"
	}
	log.NewLogger(logPath, cfg.Debug, cfg.SentryDsn)
}

func Get() *Config {
	network := getString("NETWORK", "testnetBSC")
	preset := presetFor(network)

	return &Config{
		Env:          getString("ENV", ""),
		Network:      network,
		Debug:        getBool("DEBUG", false),
		LogPath:      getString("LOG_PATH", ""),
		PrivateKey:   getString("PRIVATE_KEY", ""),
		ArtifactsDir: getString("ARTIFACTS_DIR", "./artifacts"),
		RegistryDir:  getString("REGISTRY_DIR", "."),
		JournalDir:   getString("JOURNAL_DIR", "./journal"),
		FlattenDir:   getString("FLATTEN_DIR", "./temp/flatten"),
		IdsFile:      getString("IDS_FILE", "./ids.json"),
		ProxyKind:    getString("PROXY_KIND", "transparent"),
		HealthPort:   getString("HEALTH_PORT", "8080"),
		SentryDsn:    getString("SENTRY_DSN", ""),
		Rpc: RpcConfig{
			Url:     getString("RPC_URL", preset.RpcUrl),
			ChainID: getInt64("CHAIN_ID", preset.ChainID),
			Timeout: getInt("RPC_TIMEOUT", 30),
			Retries: getInt("RPC_RETRIES", 3),
			Debug:   getBool("RPC_DEBUG", false),
		},
		Gas: GasConfig{
			DeployLimit:    getUint64("GAS_LIMIT_DEPLOY", 5000000),
			CallLimit:      getUint64("GAS_LIMIT_CALL", 3000000),
			PriceGwei:      getInt("GAS_PRICE_GWEI", 0),
			WaitReceipts:   getBool("WAIT_RECEIPTS", true),
			ConfirmTimeout: getInt("CONFIRM_TIMEOUT", 180),
		},
		Explorer: ExplorerConfig{
			ApiUrl:          getString("EXPLORER_API_URL", preset.ExplorerApi),
			ApiKey:          getString("EXPLORER_API_KEY", ""),
			BrowserUrl:      getString("EXPLORER_URL", preset.ExplorerUrl),
			CompilerVersion: getString("COMPILER_VERSION", "v0.8.9+commit.e5eed63a"),
			OptimizerRuns:   getInt("OPTIMIZER_RUNS", 200),
			PollInterval:    getInt("EXPLORER_POLL_INTERVAL", 5),
			VerifyKeys:      getSlice("VERIFY_KEYS", []string{"proxy_mainSquidGame"}, ","),
		},
		GasReport: GasReportConfig{
			GasPriceGwei: getInt("GAS_REPORT_GWEI", 5),
			NativeUsd:    getFloat("GAS_REPORT_NATIVE_USD", 600),
		},
		Aws: AwsConfig{
			AccessKey: getString("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getString("AWS_SECRET_KEY_ID", ""),
			Region:    getString("AWS_REGION", ""),
			Bucket:    getString("S3_BUCKET", ""),
			Prefix:    getString("S3_PREFIX", ""),
		},
	}
}

func (c Config) RequirePrivateKey() (string, error) {
	if c.PrivateKey == "" {
		return "", ErrMissingPrivateKey
	}

	return strings.TrimPrefix(strings.TrimSpace(c.PrivateKey), "0x"), nil
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	return int(getInt64(key, int64(defaultValue)))
}

func getInt64(key string, defaultValue int64) int64 {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return intVal
}

func getUint64(key string, defaultValue uint64) uint64 {
	return uint64(getInt64(key, int64(defaultValue)))
}

func getFloat(key string, defaultValue float64) float64 {
	if val, err := strconv.ParseFloat(getString(key, ""), 64); err == nil {
		return val
	}

	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getSlice(key string, defaultVal []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultVal
	}

	return strings.Split(valStr, sep)
}
