package event

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type Type string

const (
	TxSubmittedEvent      Type = "TxSubmittedEvent"
	TxMinedEvent          Type = "TxMinedEvent"
	TxFailedEvent         Type = "TxFailedEvent"
	ContractDeployedEvent Type = "ContractDeployedEvent"
)

// Tx is the payload of the transaction events.
type Tx struct {
	Task     string
	Label    string
	Contract string
	Address  common.Address
	Method   string
	Nonce    uint64
	Hash     common.Hash
	Receipt  *types.Receipt
	Err      error
}
