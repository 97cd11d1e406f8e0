package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const (
	NFTFile        = "deployNFTAddresses.json"
	GameFile       = "deployGameAddresses.json"
	CacheFile      = "deploymentCache.json"
	WorkerGameFile = "deployWorkerGameAddresses.json"
	LaunchpadFile  = "deployLaunchpadAddresses.json"
	ClaimerFile    = "deployClaimerAddresses.json"
)

// Files is the lookup order when a key is not in its canonical file.
var Files = []string{NFTFile, GameFile, CacheFile, WorkerGameFile, LaunchpadFile, ClaimerFile}

var canonical = map[string]string{
	ProxySquidBusNFT:    NFTFile,
	ProxySquidPlayerNFT: NFTFile,
	ImpSquidBusNFT:      NFTFile,
	ImpSquidPlayerNFT:   NFTFile,
	ProxyAdmin:          NFTFile,
	ProxyMainSquidGame:  GameFile,
	ProxyNFTMinter:      GameFile,
	ImpMainSquidGame:    GameFile,
	ImpNFTMinter:        GameFile,
	ProxyStaffWorkGame:  WorkerGameFile,
	ImpStaffWorkGame:    WorkerGameFile,
	Launchpad:           LaunchpadFile,
	LaunchpadV2:         LaunchpadFile,
	NFTClaimer:          ClaimerFile,
}

// CanonicalFile is the file a key is written to by its deployment task.
func CanonicalFile(key string) (string, bool) {
	file, ok := canonical[key]
	return file, ok
}

type Registry struct {
	store Store
}

func New(store Store) *Registry {
	return &Registry{store}
}

func (r *Registry) Store() Store {
	return r.store
}

func (r *Registry) Load(ctx context.Context, file string) (*Record, error) {
	return r.store.Load(ctx, file)
}

func (r *Registry) Save(ctx context.Context, file string, rec *Record) error {
	return r.store.Save(ctx, file, rec)
}

func (r *Registry) Files(ctx context.Context) ([]string, error) {
	return r.store.List(ctx)
}

// Address reads key from file.
func (r *Registry) Address(ctx context.Context, file, key string) (common.Address, error) {
	rec, err := r.store.Load(ctx, file)
	if err != nil {
		return common.Address{}, err
	}
	address, err := rec.Address(key)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", file, err)
	}
	return address, nil
}

// Lookup finds key in its canonical file first and then in every other
// known file. The file it was found in is returned with the address.
func (r *Registry) Lookup(ctx context.Context, key string) (common.Address, string, error) {
	order := make([]string, 0, len(Files))
	if file, ok := canonical[key]; ok {
		order = append(order, file)
	}
	for _, file := range Files {
		if len(order) == 0 || file != order[0] {
			order = append(order, file)
		}
	}

	for _, file := range order {
		rec, err := r.store.Load(ctx, file)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return common.Address{}, "", err
		}
		if !rec.Has(key) {
			continue
		}
		address, err := rec.Address(key)
		if err != nil {
			return common.Address{}, "", fmt.Errorf("%s: %w", file, err)
		}
		return address, file, nil
	}

	return common.Address{}, "", fmt.Errorf("%w: key %s in any of %v", ErrNotFound, key, order)
}

// LookupAddress is Lookup without the file.
func (r *Registry) LookupAddress(ctx context.Context, key string) (common.Address, error) {
	address, _, err := r.Lookup(ctx, key)
	return address, err
}

// Update loads file, or starts an empty record when it does not exist,
// applies fn and saves the result.
func (r *Registry) Update(ctx context.Context, file string, fn func(rec *Record)) error {
	rec, err := r.store.Load(ctx, file)
	if errors.Is(err, ErrNotFound) {
		rec = NewRecord()
	} else if err != nil {
		return err
	}

	fn(rec)
	return r.store.Save(ctx, file, rec)
}
