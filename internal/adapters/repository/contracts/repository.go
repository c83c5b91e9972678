package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// artifactFile covers the hardhat and foundry artifact layouts
type artifactFile struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     bytecodeField   `json:"bytecode"`
	Metadata     struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// bytecodeField is a plain hex string (hardhat) or {"object": "0x.."} (foundry)
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

// debugFile is hardhat's <Name>.dbg.json pointer to the build info
type debugFile struct {
	BuildInfo string `json:"buildInfo"`
}

type buildInfoFile struct {
	SolcVersion     string          `json:"solcVersion"`
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           json.RawMessage `json:"input"`
	Output          struct {
		Contracts map[string]map[string]json.RawMessage `json:"contracts"`
	} `json:"output"`
}

// Repository indexes compiled artifacts by contract name
type Repository struct {
	dir       string
	artifacts map[string]string // contract name -> artifact path
	loaded    map[string]*domain.Artifact
	log       *slog.Logger
	mu        sync.Mutex
	indexed   bool
}

// NewRepository creates an artifact repository over the configured directory
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return &Repository{
		dir:       cfg.Artifacts.Dir,
		artifacts: make(map[string]string),
		loaded:    make(map[string]*domain.Artifact),
		log:       log,
	}
}

// index records the path of every <Name>.json artifact under the directory
func (r *Repository) index() error {
	if r.indexed {
		return nil
	}
	if _, err := os.Stat(r.dir); err != nil {
		return fmt.Errorf("artifacts directory %s not found, compile the contracts first: %w", r.dir, err)
	}

	err := filepath.WalkDir(r.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if filepath.Ext(name) != ".json" || strings.HasSuffix(name, ".dbg.json") {
			return nil
		}
		contract := strings.TrimSuffix(name, ".json")
		if existing, ok := r.artifacts[contract]; ok {
			r.log.Debug("duplicate artifact name, keeping first", "contract", contract, "kept", existing, "skipped", path)
			return nil
		}
		r.artifacts[contract] = path
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts: %w", err)
	}
	r.indexed = true
	return nil
}

// Load reads and parses the artifact of a contract
func (r *Repository) Load(contractName string) (*domain.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.loaded[contractName]; ok {
		return a, nil
	}
	if err := r.index(); err != nil {
		return nil, err
	}
	path, ok := r.artifacts[contractName]
	if !ok {
		return nil, fmt.Errorf("artifact %s in %s: %w", contractName, r.dir, domain.ErrNotFound)
	}

	a, err := r.parse(contractName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	r.loaded[contractName] = a
	return a, nil
}

func (r *Repository) parse(contractName, path string) (*domain.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	parsed, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid abi: %w", err)
	}
	bytecode, err := hexutil.Decode(string(file.Bytecode))
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}

	a := &domain.Artifact{
		ContractName: contractName,
		SourceName:   file.SourceName,
		ABI:          parsed,
		RawABI:       file.ABI,
		Bytecode:     bytecode,
	}
	if file.ContractName != "" {
		a.ContractName = file.ContractName
	}
	if a.SourceName == "" {
		for source, name := range file.Metadata.Settings.CompilationTarget {
			if name == a.ContractName {
				a.SourceName = source
			}
		}
	}

	buildInfo, err := r.buildInfo(path, a)
	if err != nil {
		r.log.Debug("no build info for artifact", "contract", a.ContractName, "error", err)
	}
	a.BuildInfo = buildInfo
	return a, nil
}

// buildInfo follows the hardhat debug file, falling back to scanning the
// build-info directory for an output that contains the contract
func (r *Repository) buildInfo(artifactPath string, a *domain.Artifact) (*domain.BuildInfo, error) {
	dbgPath := strings.TrimSuffix(artifactPath, ".json") + ".dbg.json"
	if data, err := os.ReadFile(dbgPath); err == nil {
		var dbg debugFile
		if err := json.Unmarshal(data, &dbg); err != nil {
			return nil, err
		}
		return readBuildInfo(filepath.Join(filepath.Dir(dbgPath), dbg.BuildInfo))
	}

	candidates, err := filepath.Glob(filepath.Join(r.dir, "build-info", "*.json"))
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		var info buildInfoFile
		if json.Unmarshal(data, &info) != nil {
			continue
		}
		if _, ok := info.Output.Contracts[a.SourceName][a.ContractName]; ok {
			return &domain.BuildInfo{SolcVersion: info.SolcVersion, SolcLongVersion: info.SolcLongVersion, Input: info.Input}, nil
		}
	}
	return nil, fmt.Errorf("build info for %s: %w", a.FullyQualifiedName(), domain.ErrNotFound)
}

func readBuildInfo(path string) (*domain.BuildInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info buildInfoFile
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &domain.BuildInfo{SolcVersion: info.SolcVersion, SolcLongVersion: info.SolcLongVersion, Input: info.Input}, nil
}

var _ usecase.ArtifactLoader = (*Repository)(nil)
