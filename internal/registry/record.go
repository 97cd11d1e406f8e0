package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DeployTimeLayout matches the en-US locale string of the deployment scripts.
const DeployTimeLayout = "1/2/2006, 3:04:05 PM"

const (
	KeyDeployTime = "deployTime"

	ProxySquidBusNFT    = "proxy_squidBusNFT"
	ProxySquidPlayerNFT = "proxy_squidPlayerNFT"
	ImpSquidBusNFT      = "imp_squidBusNFT"
	ImpSquidPlayerNFT   = "imp_squidPlayerNFT"
	ProxyMainSquidGame  = "proxy_mainSquidGame"
	ProxyNFTMinter      = "proxy_nftMinter"
	ImpMainSquidGame    = "imp_mainSquidGame"
	ImpNFTMinter        = "imp_nftMinter"
	ProxyStaffWorkGame  = "proxy_staffWorkGame"
	ImpStaffWorkGame    = "imp_staffWorkGame"

	ProxyAdmin  = "proxyAdmin"
	Launchpad   = "launchpad"
	LaunchpadV2 = "launchpadV2"
	NFTClaimer  = "nftClaimer"
)

// Record is one registry file. Keys keep their insertion order on disk.
type Record struct {
	keys   []string
	values map[string]string
}

func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// NewDeployment starts a record stamped with the deployment time.
func NewDeployment(at time.Time) *Record {
	r := NewRecord()
	r.Set(KeyDeployTime, at.Format(DeployTimeLayout))
	return r
}

func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Record) SetAddress(key string, address common.Address) {
	r.Set(key, address.Hex())
}

func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *Record) Address(key string) (common.Address, error) {
	v, ok := r.values[key]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: key %s", ErrNotFound, key)
	}
	if !common.IsHexAddress(v) {
		return common.Address{}, fmt.Errorf("key %s: invalid address %q", key, v)
	}
	return common.HexToAddress(v), nil
}

// Proxy reads proxy_<name>.
func (r *Record) Proxy(name string) (common.Address, error) {
	return r.Address("proxy_" + name)
}

// Implementation reads imp_<name>.
func (r *Record) Implementation(name string) (common.Address, error) {
	return r.Address("imp_" + name)
}

func (r *Record) DeployTime() (time.Time, error) {
	v, ok := r.values[KeyDeployTime]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: key %s", ErrNotFound, KeyDeployTime)
	}
	return time.ParseInLocation(DeployTimeLayout, v, time.Local)
}

// Merge copies every key of other into r.
func (r *Record) Merge(other *Record) {
	for _, key := range other.keys {
		r.Set(key, other.values[key])
	}
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if t, err := dec.Token(); err != nil {
		return err
	} else if t != json.Delim('{') {
		return fmt.Errorf("registry record: expected object, got %v", t)
	}

	r.keys = nil
	r.values = make(map[string]string)
	for dec.More() {
		t, err := dec.Token()
		if err != nil {
			return err
		}
		key := t.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			value = string(raw)
		}
		r.Set(key, value)
	}

	_, err := dec.Token()
	return err
}

func encode(r *Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "    ")
}

func decode(data []byte) (*Record, error) {
	r := NewRecord()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}
