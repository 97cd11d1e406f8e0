package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	busProxy    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	playerProxy = common.HexToAddress("0x2000000000000000000000000000000000000002")
	gameProxy   = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func TestRecordKeepsKeyOrderOnDisk(t *testing.T) {
	rec := NewDeployment(time.Date(2022, 2, 26, 15, 4, 5, 0, time.UTC))
	rec.SetAddress(ProxySquidBusNFT, busProxy)
	rec.SetAddress(ProxySquidPlayerNFT, playerProxy)
	rec.Set(ImpSquidBusNFT, "0x0000000000000000000000000000000000000011")

	data, err := encode(rec)
	require.NoError(t, err)

	expected := `{
    "deployTime": "2/26/2022, 3:04:05 PM",
    "proxy_squidBusNFT": "0x1000000000000000000000000000000000000001",
    "proxy_squidPlayerNFT": "0x2000000000000000000000000000000000000002",
    "imp_squidBusNFT": "0x0000000000000000000000000000000000000011"
}`
	assert.Equal(t, expected, string(data))

	decoded, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, rec.Keys(), decoded.Keys())

	deployTime, err := decoded.DeployTime()
	require.NoError(t, err)
	assert.Equal(t, 15, deployTime.Hour())

	address, err := decoded.Proxy("squidPlayerNFT")
	require.NoError(t, err)
	assert.Equal(t, playerProxy, address)
}

func TestRecordSetOverwritesInPlace(t *testing.T) {
	rec := NewRecord()
	rec.Set("a", "1")
	rec.Set("b", "2")
	rec.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	v, _ := rec.Get("a")
	assert.Equal(t, "3", v)
}

func TestRecordAddressErrors(t *testing.T) {
	rec := NewRecord()
	rec.Set(ProxyNFTMinter, "not-an-address")

	_, err := rec.Address(ProxyMainSquidGame)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = rec.Address(ProxyNFTMinter)
	assert.ErrorContains(t, err, "invalid address")
}

func TestDecodeKeepsNonStringValues(t *testing.T) {
	rec, err := decode([]byte(`{"deployTime": "1/2/2022, 1:00:00 AM", "block": 13643170}`))
	require.NoError(t, err)

	v, ok := rec.Get("block")
	assert.True(t, ok)
	assert.Equal(t, "13643170", v)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	_, err := store.Load(ctx, NFTFile)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, NFTFile)

	rec := NewRecord()
	rec.SetAddress(ProxySquidBusNFT, busProxy)
	require.NoError(t, store.Save(ctx, NFTFile, rec))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0644))

	loaded, err := store.Load(ctx, NFTFile)
	require.NoError(t, err)
	assert.Equal(t, rec.Keys(), loaded.Keys())

	files, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{NFTFile}, files)
}

func TestLookupSearchesAllFiles(t *testing.T) {
	store := NewFileStore(t.TempDir())
	reg := New(store)
	ctx := context.Background()

	// the NFT proxies only exist in the full deployment cache
	cacheRec := NewRecord()
	cacheRec.SetAddress(ProxySquidBusNFT, busProxy)
	cacheRec.SetAddress(ProxyMainSquidGame, common.HexToAddress("0x09"))
	require.NoError(t, store.Save(ctx, CacheFile, cacheRec))

	gameRec := NewRecord()
	gameRec.SetAddress(ProxyMainSquidGame, gameProxy)
	require.NoError(t, store.Save(ctx, GameFile, gameRec))

	address, file, err := reg.Lookup(ctx, ProxySquidBusNFT)
	require.NoError(t, err)
	assert.Equal(t, busProxy, address)
	assert.Equal(t, CacheFile, file)

	address, file, err = reg.Lookup(ctx, ProxyMainSquidGame)
	require.NoError(t, err)
	assert.Equal(t, gameProxy, address, "canonical file wins")
	assert.Equal(t, GameFile, file)

	_, err = reg.LookupAddress(ctx, ProxyStaffWorkGame)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, ProxyStaffWorkGame)
}

func TestAddressNamesFileAndKey(t *testing.T) {
	store := NewFileStore(t.TempDir())
	reg := New(store)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, GameFile, NewRecord()))

	_, err := reg.Address(ctx, GameFile, ProxyNFTMinter)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, GameFile)
	assert.ErrorContains(t, err, ProxyNFTMinter)

	_, err = reg.Address(ctx, WorkerGameFile, ProxyStaffWorkGame)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCreatesOrMerges(t *testing.T) {
	store := NewFileStore(t.TempDir())
	reg := New(store)
	ctx := context.Background()

	require.NoError(t, reg.Update(ctx, LaunchpadFile, func(rec *Record) {
		rec.SetAddress(Launchpad, busProxy)
	}))
	require.NoError(t, reg.Update(ctx, LaunchpadFile, func(rec *Record) {
		rec.SetAddress(LaunchpadV2, playerProxy)
	}))

	rec, err := reg.Load(ctx, LaunchpadFile)
	require.NoError(t, err)
	assert.Equal(t, []string{Launchpad, LaunchpadV2}, rec.Keys())
}

func TestCanonicalFile(t *testing.T) {
	file, ok := CanonicalFile(ProxyStaffWorkGame)
	assert.True(t, ok)
	assert.Equal(t, WorkerGameFile, file)

	_, ok = CanonicalFile("unknown")
	assert.False(t, ok)
}
