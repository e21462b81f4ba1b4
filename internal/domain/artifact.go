package domain

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Artifact is a compiled contract read from the build output
type Artifact struct {
	Name       string
	SourceName string
	Path       string
	ABI        abi.ABI
	RawABI     json.RawMessage
	Bytecode   []byte
	BuildInfo  *BuildInfo
}

// FullyQualifiedName returns "<source>:<name>", or just the name when the source is unknown
func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.Name
	}
	return a.SourceName + ":" + a.Name
}

// BuildInfo is the compiler input that produced an artifact
type BuildInfo struct {
	SolcVersion     string          `json:"solcVersion"`
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           json.RawMessage `json:"input"`
}
