package journal

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/squidgame/squid-ops/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalRecordsEventsToDisk(t *testing.T) {
	dir := t.TempDir()
	j, err := New(dir, "setup-roles")
	require.NoError(t, err)
	assert.NotEmpty(t, j.RunID())
	assert.Contains(t, j.Path(), "setup-roles-")

	m := event.NewManager()
	j.Listen(m)

	hash := common.HexToHash("0x01")
	m.EmitEvent(event.TxSubmittedEvent, event.Tx{Contract: "SquidBusNFT", Method: "grantRole", Nonce: 7, Hash: hash})
	m.EmitEvent(event.TxMinedEvent, event.Tx{Contract: "SquidBusNFT", Method: "grantRole", Nonce: 7, Hash: hash, Receipt: &types.Receipt{GasUsed: 51000}})
	m.EmitEvent(event.TxFailedEvent, event.Tx{Contract: "MainSquidGame", Method: "addNewGame", Nonce: 8, Err: errors.New("reverted")})

	run, err := Load(j.Path())
	require.NoError(t, err)
	assert.Equal(t, j.RunID(), run.ID)
	assert.Equal(t, "setup-roles", run.Task)
	require.Len(t, run.Entries, 3)

	assert.Equal(t, StatusSubmitted, run.Entries[0].Status)
	assert.Equal(t, hash.Hex(), run.Entries[0].TxHash)
	assert.Equal(t, "setup-roles", run.Entries[0].Task)

	assert.Equal(t, StatusMined, run.Entries[1].Status)
	assert.Equal(t, uint64(51000), run.Entries[1].GasUsed)

	assert.Equal(t, StatusFailed, run.Entries[2].Status)
	assert.Equal(t, "reverted", run.Entries[2].Error)
	assert.Empty(t, run.Entries[2].TxHash)
	assert.Equal(t, uint64(8), run.Entries[2].Nonce)
}

func TestJournalRecordsDeployedContracts(t *testing.T) {
	j, err := New(t.TempDir(), "deploy-nft")
	require.NoError(t, err)

	m := event.NewManager()
	j.Listen(m)

	proxy := common.HexToAddress("0x6916000000000000000000000000000000009cd2")
	m.EmitEvent(event.ContractDeployedEvent, event.Tx{
		Label:    "Deploy TransparentUpgradeableProxy",
		Contract: "TransparentUpgradeableProxy",
		Address:  proxy,
		Method:   "constructor",
		Nonce:    4,
		Hash:     common.HexToHash("0x02"),
		Receipt:  &types.Receipt{GasUsed: 900000, ContractAddress: proxy},
	})

	entries := j.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, StatusDeployed, entries[0].Status)
	assert.Equal(t, proxy.Hex(), entries[0].Address)
	assert.Equal(t, uint64(900000), entries[0].GasUsed)
}

func TestLoadMissingJournal(t *testing.T) {
	_, err := Load(t.TempDir() + "/missing.json")
	assert.Error(t, err)
}
