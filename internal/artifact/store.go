package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var (
	ErrNotFound   = errors.New("artifact not found")
	ErrNoBytecode = errors.New("artifact has no bytecode")
)

// Artifact is a Hardhat compilation artifact.
type Artifact struct {
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	RawAbi           json.RawMessage `json:"abi"`
	Bytecode         string          `json:"bytecode"`
	DeployedBytecode string          `json:"deployedBytecode"`

	ABI abi.ABI `json:"-"`
}

func (a *Artifact) Code() ([]byte, error) {
	code, err := hexutil.Decode(a.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("%s bytecode: %w", a.ContractName, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s is abstract or an interface", ErrNoBytecode, a.ContractName)
	}

	return code, nil
}

type Store interface {
	Get(name string) (*Artifact, error)
	Dir() string
}

type store struct {
	dir   string
	cache *cache.Cache
}

func NewStore(dir string, cache *cache.Cache) Store {
	return store{dir, cache}
}

func (s store) Dir() string {
	return s.dir
}

func (s store) Get(name string) (*Artifact, error) {
	key := "artifact:" + name
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*Artifact), nil
	}

	path, err := s.find(name)
	if err != nil {
		return nil, err
	}

	a, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, a, cache.NoExpiration)

	zap.L().With(zap.String("contract", name), zap.String("path", path)).Debug("Artifact loaded")
	return a, nil
}

// find walks the artifacts directory for <name>.sol/<name>.json. Contracts
// under contracts/ win over dependency artifacts with the same name.
func (s store) find(name string) (string, error) {
	var found []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == name+".json" && strings.HasSuffix(filepath.Dir(path), ".sol") {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s (no artifacts directory %s)", ErrNotFound, name, s.dir)
		}
		return "", err
	}

	if len(found) == 0 {
		return "", fmt.Errorf("%w: %s in %s", ErrNotFound, name, s.dir)
	}
	for _, path := range found {
		rel, _ := filepath.Rel(s.dir, path)
		if strings.HasPrefix(filepath.ToSlash(rel), "contracts/") {
			return path, nil
		}
	}

	return found[0], nil
}

func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}

	parsed, err := abi.JSON(strings.NewReader(string(a.RawAbi)))
	if err != nil {
		return nil, fmt.Errorf("artifact %s abi: %w", path, err)
	}
	a.ABI = parsed

	return &a, nil
}
