package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
	"github.com/nu7hatch/gouuid"
	"github.com/squidgame/squid-ops/internal/event"
	"go.uber.org/zap"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusMined     Status = "mined"
	StatusFailed    Status = "failed"
	StatusDeployed  Status = "deployed"
)

type Entry struct {
	Time     time.Time `json:"time"`
	Task     string    `json:"task"`
	Label    string    `json:"label"`
	Contract string    `json:"contract"`
	Address  string    `json:"address"`
	Method   string    `json:"method"`
	Nonce    uint64    `json:"nonce"`
	TxHash   string    `json:"txHash,omitempty"`
	Status   Status    `json:"status"`
	GasUsed  uint64    `json:"gasUsed,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type Run struct {
	ID      string    `json:"id"`
	Task    string    `json:"task"`
	Started time.Time `json:"started"`
	Entries []Entry   `json:"entries"`
}

// Journal keeps an append-only record of every transaction of a run and
// rewrites journal/<task>-<runID>.json after each entry.
type Journal struct {
	mu   sync.Mutex
	dir  string
	path string
	run  Run
	now  func() time.Time
}

func New(dir, task string) (*Journal, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	j := &Journal{
		dir: dir,
		now: time.Now,
		run: Run{ID: u.String(), Task: task, Started: time.Now(), Entries: make([]Entry, 0)},
	}
	j.path = filepath.Join(dir, fmt.Sprintf("%s-%s.json", slug.Make(task), j.run.ID))

	return j, nil
}

func (j *Journal) RunID() string {
	return j.run.ID
}

func (j *Journal) Path() string {
	return j.path
}

func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := make([]Entry, len(j.run.Entries))
	copy(entries, j.run.Entries)
	return entries
}

func (j *Journal) Record(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.Time.IsZero() {
		e.Time = j.now()
	}
	if e.Task == "" {
		e.Task = j.run.Task
	}
	j.run.Entries = append(j.run.Entries, e)

	return j.flush()
}

func (j *Journal) flush() error {
	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(j.run, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(j.path, data, 0644)
}

// Listen records the transaction events emitted by contract calls.
func (j *Journal) Listen(m *event.Manager) {
	m.AddEventListener(event.TxSubmittedEvent, j.fromEvent(StatusSubmitted))
	m.AddEventListener(event.TxMinedEvent, j.fromEvent(StatusMined))
	m.AddEventListener(event.TxFailedEvent, j.fromEvent(StatusFailed))
	m.AddEventListener(event.ContractDeployedEvent, j.fromEvent(StatusDeployed))
}

func (j *Journal) fromEvent(status Status) func(msg interface{}) {
	return func(msg interface{}) {
		tx, ok := msg.(event.Tx)
		if !ok {
			return
		}

		e := Entry{
			Task:     tx.Task,
			Label:    tx.Label,
			Contract: tx.Contract,
			Address:  tx.Address.Hex(),
			Method:   tx.Method,
			Nonce:    tx.Nonce,
			Status:   status,
		}
		if tx.Hash != (common.Hash{}) {
			e.TxHash = tx.Hash.Hex()
		}
		if tx.Receipt != nil {
			e.GasUsed = tx.Receipt.GasUsed
		}
		if tx.Err != nil {
			e.Error = tx.Err.Error()
		}

		if err := j.Record(e); err != nil {
			zap.L().With(zap.Error(err), zap.String("path", j.path)).Error("Failed to write journal")
		}
	}
}

func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("journal %s: %w", path, err)
	}

	return &run, nil
}
