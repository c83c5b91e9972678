package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// Service verifies contracts through the Etherscan v2 multichain API
type Service struct {
	client       *http.Client
	apiKey       string
	apiURL       string
	pollInterval time.Duration
	maxAttempts  int
	log          *slog.Logger
}

// NewService creates a new verification service
func NewService(cfg *config.RuntimeConfig, log *slog.Logger) *Service {
	return &Service{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:       cfg.Etherscan.APIKey,
		apiURL:       cfg.Etherscan.URL,
		pollInterval: cfg.Etherscan.PollInterval,
		maxAttempts:  max(cfg.Etherscan.MaxAttempts, 1),
		log:          log,
	}
}

// etherscanResponse represents an Etherscan API response
type etherscanResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// text returns the result when it is a plain string
func (r *etherscanResponse) text() string {
	var s string
	if err := json.Unmarshal(r.Result, &s); err != nil {
		return string(r.Result)
	}
	return s
}

// Verify submits the standard json input of the artifact and waits for the
// explorer to accept it. An explorer that already holds the source returns
// domain.ErrAlreadyVerified.
func (s *Service) Verify(ctx context.Context, record *domain.DeploymentRecord, artifact *domain.Artifact) error {
	if s.apiKey == "" {
		return fmt.Errorf("no explorer API key configured")
	}
	if artifact.BuildInfo == nil || len(artifact.BuildInfo.Input) == 0 {
		return fmt.Errorf("no compiler input found for %s", artifact.FullyQualifiedName())
	}

	verified, err := s.isVerified(ctx, record)
	if err != nil {
		s.log.Debug("source lookup failed", "address", record.Address.Hex(), "error", err)
	}
	if verified {
		return domain.ErrAlreadyVerified
	}

	guid, err := s.submit(ctx, record, artifact)
	if err != nil {
		return err
	}
	s.log.Debug("verification submitted", "contract", record.ContractName, "guid", guid)
	return s.waitForResult(ctx, record.ChainID, guid)
}

// isVerified asks the explorer whether source code is published for the address
func (s *Service) isVerified(ctx context.Context, record *domain.DeploymentRecord) (bool, error) {
	params := url.Values{}
	params.Set("module", "contract")
	params.Set("action", "getsourcecode")
	params.Set("address", record.Address.Hex())

	result, err := s.get(ctx, record.ChainID, params)
	if err != nil {
		return false, err
	}
	var sources []struct {
		SourceCode string `json:"SourceCode"`
	}
	if err := json.Unmarshal(result.Result, &sources); err != nil {
		return false, fmt.Errorf("failed to parse source lookup: %w", err)
	}
	return len(sources) > 0 && sources[0].SourceCode != "", nil
}

// submit posts the verification request and returns its GUID. Explorers that
// have not indexed the contract yet are retried.
func (s *Service) submit(ctx context.Context, record *domain.DeploymentRecord, artifact *domain.Artifact) (string, error) {
	data := url.Values{}
	data.Set("apikey", s.apiKey)
	data.Set("module", "contract")
	data.Set("action", "verifysourcecode")
	data.Set("contractaddress", record.Address.Hex())
	data.Set("sourceCode", string(artifact.BuildInfo.Input))
	data.Set("codeformat", "solidity-standard-json-input")
	data.Set("contractname", artifact.FullyQualifiedName())
	data.Set("compilerversion", compilerVersion(artifact.BuildInfo))
	if len(record.ArgsData) > 0 {
		data.Set("constructorArguements", strings.TrimPrefix(hexutil.Encode(record.ArgsData), "0x")) // Note: Etherscan typo
	}

	for attempt := 1; ; attempt++ {
		result, err := s.post(ctx, record.ChainID, data)
		if err != nil {
			return "", fmt.Errorf("failed to submit verification: %w", err)
		}
		msg := result.text()
		switch {
		case result.Status == "1":
			return msg, nil
		case isAlreadyVerified(msg):
			return "", domain.ErrAlreadyVerified
		case strings.Contains(msg, "Unable to locate ContractCode") && attempt < s.maxAttempts:
			s.log.Debug("explorer has not indexed the contract yet", "attempt", attempt)
			if err := s.sleep(ctx); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("verification rejected: %s", msg)
		}
	}
}

// waitForResult polls checkverifystatus until the explorer decides
func (s *Service) waitForResult(ctx context.Context, chainID uint64, guid string) error {
	params := url.Values{}
	params.Set("module", "contract")
	params.Set("action", "checkverifystatus")
	params.Set("guid", guid)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := s.sleep(ctx); err != nil {
			return err
		}
		result, err := s.get(ctx, chainID, params)
		if err != nil {
			return fmt.Errorf("failed to check status: %w", err)
		}
		msg := result.text()
		switch {
		case strings.Contains(strings.ToLower(msg), "pending"):
			continue
		case isAlreadyVerified(msg):
			return domain.ErrAlreadyVerified
		case result.Status == "1":
			return nil
		default:
			return fmt.Errorf("verification failed: %s", msg)
		}
	}
	return fmt.Errorf("verification still pending after %d checks (guid %s)", s.maxAttempts, guid)
}

func (s *Service) post(ctx context.Context, chainID uint64, data url.Values) (*etherscanResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(chainID, nil), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *Service) get(ctx context.Context, chainID uint64, params url.Values) (*etherscanResponse, error) {
	params.Set("apikey", s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(chainID, params), nil)
	if err != nil {
		return nil, err
	}
	return s.do(req)
}

func (s *Service) do(req *http.Request) (*etherscanResponse, error) {
	resp, err := s.client.Do(req) //nolint:gosec // URL is the configured explorer endpoint
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

// endpoint adds the v2 chainid selector to the API URL
func (s *Service) endpoint(chainID uint64, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("chainid", strconv.FormatUint(chainID, 10))
	sep := "?"
	if strings.Contains(s.apiURL, "?") {
		sep = "&"
	}
	return s.apiURL + sep + q.Encode()
}

func (s *Service) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.pollInterval):
		return nil
	}
}

// compilerVersion renders the solc version the way Etherscan expects, v0.8.8+commit.dddeac2f
func compilerVersion(info *domain.BuildInfo) string {
	v := info.SolcLongVersion
	if v == "" {
		v = info.SolcVersion
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func isAlreadyVerified(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "already verified")
}

var _ usecase.ContractVerifier = (*Service)(nil)
