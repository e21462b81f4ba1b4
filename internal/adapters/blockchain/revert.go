package blockchain

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// jsonError matches the structure of go-ethereum's private rpc JSON error type
type jsonError interface {
	Error() string
	ErrorCode() int
	ErrorData() any
}

// DecodeRevert turns an execution error into a *domain.RevertError when it carries
// revert data or an "execution reverted" message. Other errors are returned unchanged.
func DecodeRevert(err error, contractABI *abi.ABI) error {
	if err == nil {
		return nil
	}

	data, hasData := revertData(err)
	if !hasData && !strings.Contains(err.Error(), "execution reverted") {
		return err
	}

	return &domain.RevertError{
		Reason: revertReason(data, contractABI),
		Data:   data,
		Err:    err,
	}
}

// revertData extracts the hex payload of a JSON-RPC revert error
func revertData(err error) ([]byte, bool) {
	var jerr jsonError
	if !errors.As(err, &jerr) {
		return nil, false
	}
	raw, ok := jerr.ErrorData().(string)
	if !ok || raw == "" {
		return nil, false
	}
	data, decodeErr := hexutil.Decode(raw)
	if decodeErr != nil {
		return nil, false
	}
	return data, true
}

// revertReason decodes Error(string) payloads and custom errors declared in the ABI
func revertReason(data []byte, contractABI *abi.ABI) string {
	if len(data) < 4 {
		return ""
	}
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason
	}
	if contractABI == nil {
		return ""
	}
	for name, abiErr := range contractABI.Errors {
		if !bytes.Equal(abiErr.ID[:4], data[:4]) {
			continue
		}
		values, err := abiErr.Unpack(data)
		if err != nil {
			return name + "()"
		}
		return formatCustomError(name, values)
	}
	return ""
}

func formatCustomError(name string, values any) string {
	args, ok := values.([]any)
	if !ok || len(args) == 0 {
		return name + "()"
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(domain.FormatArgs(args), ", "))
}
