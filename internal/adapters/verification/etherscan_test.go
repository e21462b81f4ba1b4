package verification

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

type explorerStub struct {
	submissions []string // submit results, consumed in order; the last one repeats
	statuses    []string // checkverifystatus results, consumed in order; the last one repeats

	submitCalls atomic.Int32
	statusCalls atomic.Int32
	lastForm    map[string]string
	lastChainID string
}

func (s *explorerStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.lastChainID = r.URL.Query().Get("chainid")

	reply := func(status, result string) {
		_ = json.NewEncoder(w).Encode(etherscanResponse{Status: status, Message: "OK", Result: result})
	}

	switch r.Form.Get("action") {
	case "verifysourcecode":
		s.lastForm = map[string]string{}
		for k := range r.PostForm {
			s.lastForm[k] = r.PostForm.Get(k)
		}
		n := int(s.submitCalls.Add(1)) - 1
		result := s.submissions[min(n, len(s.submissions)-1)]
		if result == "guid" {
			reply("1", "guid-123")
			return
		}
		reply("0", result)
	case "checkverifystatus":
		n := int(s.statusCalls.Add(1)) - 1
		result := s.statuses[min(n, len(s.statuses)-1)]
		status := "0"
		if result == statusPassVerified {
			status = "1"
		}
		reply(status, result)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newTestVerifier(t *testing.T, stub *explorerStub) *EtherscanVerifier {
	t.Helper()
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	cfg := &config.RuntimeConfig{
		EtherscanAPIKey: "test-key",
		Network:         &domain.Network{Name: "rinkeby", ChainID: 4},
		Project:         &config.ProjectConfig{Etherscan: config.EtherscanConfig{URL: server.URL + "/v2/api"}},
	}
	v := NewEtherscanVerifier(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	v.pollInterval = time.Millisecond
	return v
}

func testRequest() usecase.SourceVerificationRequest {
	return usecase.SourceVerificationRequest{
		Network: &domain.Network{Name: "rinkeby", ChainID: 4},
		Address: common.HexToAddress("0x1234567890123456789012345678901234567890"),
		Artifact: &domain.Artifact{
			Name:       "FundMe",
			SourceName: "contracts/FundMe.sol",
			BuildInfo: &domain.BuildInfo{
				SolcVersion:     "0.8.8",
				SolcLongVersion: "0.8.8+commit.dddeac2f",
				Input:           json.RawMessage(`{"language":"Solidity"}`),
			},
		},
		ConstructorArgs: common.LeftPadBytes([]byte{0xab}, 32),
	}
}

func TestEtherscanVerifier_Verified(t *testing.T) {
	stub := &explorerStub{
		submissions: []string{"guid"},
		statuses:    []string{statusPending, statusPending, statusPassVerified},
	}
	v := newTestVerifier(t, stub)

	require.NoError(t, v.VerifySource(context.Background(), testRequest()))

	assert.Equal(t, int32(1), stub.submitCalls.Load())
	assert.Equal(t, int32(3), stub.statusCalls.Load())
	assert.Equal(t, "4", stub.lastChainID)
	assert.Equal(t, "solidity-standard-json-input", stub.lastForm["codeformat"])
	assert.Equal(t, "v0.8.8+commit.dddeac2f", stub.lastForm["compilerversion"])
	assert.Equal(t, "contracts/FundMe.sol:FundMe", stub.lastForm["contractname"])
	assert.Equal(t, "0x1234567890123456789012345678901234567890", stub.lastForm["contractaddress"])
	assert.Equal(t, `{"language":"Solidity"}`, stub.lastForm["sourceCode"])
	assert.Equal(t, "00000000000000000000000000000000000000000000000000000000000000ab", stub.lastForm["constructorArguements"])
	assert.Equal(t, "test-key", stub.lastForm["apikey"])
}

func TestEtherscanVerifier_RetriesUntilIndexed(t *testing.T) {
	stub := &explorerStub{
		submissions: []string{"Unable to locate ContractCode at 0x1234", "guid"},
		statuses:    []string{statusPassVerified},
	}
	v := newTestVerifier(t, stub)

	require.NoError(t, v.VerifySource(context.Background(), testRequest()))
	assert.Equal(t, int32(2), stub.submitCalls.Load())
}

func TestEtherscanVerifier_Failures(t *testing.T) {
	tests := []struct {
		name    string
		stub    *explorerStub
		wantMsg string
	}{
		{
			name:    "already verified",
			stub:    &explorerStub{submissions: []string{"Contract source code already verified"}},
			wantMsg: "already verified",
		},
		{
			name:    "bytecode mismatch",
			stub:    &explorerStub{submissions: []string{"guid"}, statuses: []string{"Fail - Unable to verify"}},
			wantMsg: "verification failed: Fail - Unable to verify",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestVerifier(t, tt.stub).VerifySource(context.Background(), testRequest())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, int32(1), tt.stub.submitCalls.Load())
		})
	}
}

func TestEtherscanVerifier_Preconditions(t *testing.T) {
	stub := &explorerStub{submissions: []string{"guid"}, statuses: []string{statusPassVerified}}

	t.Run("no api key", func(t *testing.T) {
		v := newTestVerifier(t, stub)
		v.apiKey = ""
		err := v.VerifySource(context.Background(), testRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ETHERSCAN_API_KEY")
	})

	t.Run("no build info", func(t *testing.T) {
		req := testRequest()
		req.Artifact.BuildInfo = nil
		err := newTestVerifier(t, stub).VerifySource(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no compiler input")
	})

	assert.Zero(t, stub.submitCalls.Load())
}

func TestNewEtherscanVerifier_NetworkOverride(t *testing.T) {
	cfg := &config.RuntimeConfig{
		Network: &domain.Network{Name: "custom", VerifyURL: "https://explorer.example/api"},
		Project: &config.ProjectConfig{Etherscan: config.EtherscanConfig{URL: "https://api.etherscan.io/v2/api"}},
	}
	v := NewEtherscanVerifier(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, "https://explorer.example/api?chainid=7", v.endpoint(7))
}
