package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Contract names known to the deploy scripts
const (
	ContractFundMe           = "FundMe"
	ContractMockV3Aggregator = "MockV3Aggregator"
)

// DeploymentRecord is the immutable result of one deploy call
type DeploymentRecord struct {
	Contract        string          `json:"contractName" yaml:"contractName"`
	Address         common.Address  `json:"address" yaml:"address"`
	ABI             json.RawMessage `json:"abi" yaml:"-"`
	Args            []string        `json:"args" yaml:"args"`
	ConstructorArgs string          `json:"constructorArgs,omitempty" yaml:"constructorArgs,omitempty"`
	TransactionHash common.Hash     `json:"transactionHash" yaml:"transactionHash"`
	Receipt         ReceiptInfo     `json:"receipt" yaml:"receipt"`
	Deployer        common.Address  `json:"deployer" yaml:"deployer"`
	Network         string          `json:"network" yaml:"network"`
	ChainID         uint64          `json:"chainId" yaml:"chainId"`
	BytecodeHash    common.Hash     `json:"bytecodeHash" yaml:"bytecodeHash"`
	DeployedAt      time.Time       `json:"deployedAt" yaml:"deployedAt"`

	// NewlyDeployed is false when an identical earlier deployment was reused
	NewlyDeployed bool `json:"-" yaml:"-"`
}

// ReceiptInfo is the subset of the deployment receipt kept in the registry
type ReceiptInfo struct {
	BlockNumber       uint64   `json:"blockNumber" yaml:"blockNumber"`
	GasUsed           uint64   `json:"gasUsed" yaml:"gasUsed"`
	EffectiveGasPrice *big.Int `json:"effectiveGasPrice,omitempty" yaml:"effectiveGasPrice,omitempty"`
	Confirmations     uint64   `json:"confirmations" yaml:"confirmations"`
}

// TxResult describes a mined contract interaction
type TxResult struct {
	Hash              common.Hash
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
}

// GasCost returns gasUsed * effectiveGasPrice in wei
func (r *TxResult) GasCost() *big.Int {
	if r.EffectiveGasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(r.GasUsed), r.EffectiveGasPrice)
}

// FormatArgs renders constructor arguments the way they are logged and stored
func FormatArgs(args []any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case common.Address:
			out[i] = v.Hex()
		case fmt.Stringer:
			out[i] = v.String()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
