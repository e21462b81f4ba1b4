package contracts

import (
	"bytes"
	"encoding/json"
)

// artifactFile covers the fields shared by Hardhat and Foundry artifacts
type artifactFile struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     bytecodeField   `json:"bytecode"`
	Metadata     struct {
		Compiler struct {
			Version string `json:"version"`
		} `json:"compiler"`
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// bytecodeField is a hex string (Hardhat) or an object with an "object" field (Foundry)
type bytecodeField string

func (b *bytecodeField) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*b = bytecodeField(obj.Object)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = bytecodeField(s)
	return nil
}
