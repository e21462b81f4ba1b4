package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

const (
	statusPassVerified  = "Pass - Verified"
	statusPending       = "Pending in queue"
	resultNoBytecodeYet = "Unable to locate ContractCode"
)

var (
	errVerificationPending = errors.New("verification pending")
	errCodeNotIndexed      = errors.New("explorer has not indexed the contract yet")
)

// EtherscanVerifier submits standard-json sources to the Etherscan v2 multichain API
type EtherscanVerifier struct {
	client  *http.Client
	apiKey  string
	baseURL string
	log     *slog.Logger

	// pollInterval is the wait between status checks and submission retries
	pollInterval time.Duration
	maxAttempts  uint
}

// NewEtherscanVerifier creates a verifier using the configured API key and endpoint
func NewEtherscanVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *EtherscanVerifier {
	baseURL := cfg.Project.Etherscan.URL
	if cfg.Network != nil && cfg.Network.VerifyURL != "" {
		baseURL = cfg.Network.VerifyURL
	}
	return &EtherscanVerifier{
		client:       &http.Client{Timeout: 30 * time.Second},
		apiKey:       cfg.EtherscanAPIKey,
		baseURL:      baseURL,
		log:          log.With("component", "EtherscanVerifier"),
		pollInterval: 5 * time.Second,
		maxAttempts:  20,
	}
}

// VerifySource submits the source and waits for the explorer's verdict.
// An "already verified" answer is returned as an error carrying the explorer's message.
func (v *EtherscanVerifier) VerifySource(ctx context.Context, req usecase.SourceVerificationRequest) error {
	if v.apiKey == "" {
		return fmt.Errorf("no Etherscan API key configured (set ETHERSCAN_API_KEY)")
	}
	if req.Artifact.BuildInfo == nil || len(req.Artifact.BuildInfo.Input) == 0 {
		return fmt.Errorf("no compiler input found for %s, recompile to produce build info", req.Artifact.Name)
	}

	var guid string
	err := retry.Do(
		func() error {
			var err error
			guid, err = v.submit(ctx, req)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(v.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errCodeNotIndexed) }),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return err
	}
	v.log.Debug("verification submitted", "address", req.Address, "guid", guid)

	return retry.Do(
		func() error { return v.checkStatus(ctx, req.Network.ChainID, guid) },
		retry.Context(ctx),
		retry.Attempts(v.maxAttempts),
		retry.Delay(v.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errVerificationPending) }),
		retry.LastErrorOnly(true),
	)
}

// submit posts verifysourcecode and returns the receipt GUID
func (v *EtherscanVerifier) submit(ctx context.Context, req usecase.SourceVerificationRequest) (string, error) {
	artifact := req.Artifact

	form := url.Values{}
	form.Set("apikey", v.apiKey)
	form.Set("module", "contract")
	form.Set("action", "verifysourcecode")
	form.Set("contractaddress", req.Address.Hex())
	form.Set("sourceCode", string(artifact.BuildInfo.Input))
	form.Set("codeformat", "solidity-standard-json-input")
	form.Set("contractname", artifact.FullyQualifiedName())
	form.Set("compilerversion", "v"+strings.TrimPrefix(artifact.BuildInfo.SolcLongVersion, "v"))
	if len(req.ConstructorArgs) > 0 {
		// Etherscan spells the field this way
		form.Set("constructorArguements", strings.TrimPrefix(hexutil.Encode(req.ConstructorArgs), "0x"))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint(req.Network.ChainID), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	result, err := v.do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to submit verification: %w", err)
	}
	if result.Status != "1" {
		if strings.Contains(result.Result, resultNoBytecodeYet) {
			return "", fmt.Errorf("%w: %s", errCodeNotIndexed, result.Result)
		}
		return "", fmt.Errorf("verification rejected: %s", result.Result)
	}
	return result.Result, nil
}

// checkStatus queries checkverifystatus once
func (v *EtherscanVerifier) checkStatus(ctx context.Context, chainID uint64, guid string) error {
	query := url.Values{}
	query.Set("apikey", v.apiKey)
	query.Set("module", "contract")
	query.Set("action", "checkverifystatus")
	query.Set("guid", guid)

	endpoint := v.endpoint(chainID) + "&" + query.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	result, err := v.do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to check verification status: %w", err)
	}

	switch {
	case result.Result == statusPassVerified:
		return nil
	case strings.Contains(result.Result, statusPending):
		return errVerificationPending
	default:
		return fmt.Errorf("verification failed: %s", result.Result)
	}
}

func (v *EtherscanVerifier) endpoint(chainID uint64) string {
	sep := "?"
	if strings.Contains(v.baseURL, "?") {
		sep = "&"
	}
	return v.baseURL + sep + "chainid=" + strconv.FormatUint(chainID, 10)
}

func (v *EtherscanVerifier) do(req *http.Request) (*etherscanResponse, error) {
	resp, err := v.client.Do(req) //nolint:gosec // URL is constructed from configured explorer endpoint
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer returned HTTP %d", resp.StatusCode)
	}

	var result etherscanResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// etherscanResponse represents Etherscan API response
type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

var _ usecase.SourceVerifier = (*EtherscanVerifier)(nil)
