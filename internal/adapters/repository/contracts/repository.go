package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

const buildInfoDir = "build-info"

// Repository indexes compiled artifacts under the artifacts directory.
// Hardhat (artifacts/) and Foundry (out/) layouts are both understood.
type Repository struct {
	artifactsDir string
	log          *slog.Logger

	mu        sync.RWMutex
	indexed   bool
	artifacts map[string]*domain.Artifact   // key: "source:Name"
	byName    map[string][]*domain.Artifact // key: contract name
}

// NewRepository creates a repository reading the project's artifacts directory
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return NewRepositoryAt(cfg.Project.ArtifactsDir(cfg.ProjectRoot), log)
}

// NewRepositoryAt creates a repository reading dir
func NewRepositoryAt(dir string, log *slog.Logger) *Repository {
	return &Repository{
		artifactsDir: dir,
		log:          log.With("component", "ArtifactRepository"),
		artifacts:    make(map[string]*domain.Artifact),
		byName:       make(map[string][]*domain.Artifact),
	}
}

// GetArtifact returns the artifact for a contract name or fully qualified name
func (r *Repository) GetArtifact(ctx context.Context, name string) (*domain.Artifact, error) {
	if err := r.index(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if artifact, ok := r.artifacts[name]; ok {
		return artifact, nil
	}

	candidates := r.byName[name]
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: %s (looked in %s)", domain.ErrArtifactNotFound, name, r.artifactsDir)
	case 1:
		return candidates[0], nil
	default:
		names := lo.Map(candidates, func(a *domain.Artifact, _ int) string { return a.FullyQualifiedName() })
		sort.Strings(names)
		return nil, fmt.Errorf("multiple artifacts named %s, use a fully qualified name: %s",
			name, strings.Join(names, ", "))
	}
}

// index walks the artifacts directory once
func (r *Repository) index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	if _, err := os.Stat(r.artifactsDir); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: artifacts directory %s does not exist, compile the contracts first",
			domain.ErrArtifactNotFound, r.artifactsDir)
	}

	err := filepath.WalkDir(r.artifactsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == buildInfoDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		return r.processArtifact(path)
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts: %w", err)
	}

	r.indexed = true
	r.log.Debug("indexed artifacts", "dir", r.artifactsDir, "count", len(r.artifacts))
	return nil
}

// processArtifact parses one artifact file, skipping anything that is not a contract artifact
func (r *Repository) processArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw artifactFile
	if err := json.Unmarshal(data, &raw); err != nil || len(raw.ABI) == 0 {
		r.log.Debug("skipping non-artifact json", "path", path)
		return nil
	}

	name, source := raw.ContractName, raw.SourceName
	if name == "" {
		for src, contract := range raw.Metadata.Settings.CompilationTarget {
			source, name = src, contract
		}
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	parsed, err := abi.JSON(strings.NewReader(string(raw.ABI)))
	if err != nil {
		return fmt.Errorf("invalid ABI in %s: %w", path, err)
	}

	var bytecode []byte
	if code := string(raw.Bytecode); code != "" && code != "0x" {
		bytecode, err = hexutil.Decode(code)
		if err != nil {
			return fmt.Errorf("invalid bytecode in %s (unlinked libraries?): %w", path, err)
		}
	}

	artifact := &domain.Artifact{
		Name:       name,
		SourceName: source,
		Path:       path,
		ABI:        parsed,
		RawABI:     raw.ABI,
		Bytecode:   bytecode,
	}
	artifact.BuildInfo, err = r.buildInfo(path, raw)
	if err != nil {
		r.log.Warn("failed to read build info", "artifact", path, "error", err)
	}

	key := artifact.FullyQualifiedName()
	if _, exists := r.artifacts[key]; !exists {
		r.byName[name] = append(r.byName[name], artifact)
	}
	r.artifacts[key] = artifact
	return nil
}

// buildInfo follows a Hardhat .dbg.json pointer to its build-info file, or falls
// back to the compiler version recorded in Foundry metadata
func (r *Repository) buildInfo(artifactPath string, raw artifactFile) (*domain.BuildInfo, error) {
	dbgPath := strings.TrimSuffix(artifactPath, ".json") + ".dbg.json"
	data, err := os.ReadFile(dbgPath)
	if errors.Is(err, os.ErrNotExist) {
		if raw.Metadata.Compiler.Version == "" {
			return nil, nil
		}
		return &domain.BuildInfo{
			SolcVersion:     strings.SplitN(raw.Metadata.Compiler.Version, "+", 2)[0],
			SolcLongVersion: raw.Metadata.Compiler.Version,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	var dbg struct {
		BuildInfo string `json:"buildInfo"`
	}
	if err := json.Unmarshal(data, &dbg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", dbgPath, err)
	}
	if dbg.BuildInfo == "" {
		return nil, nil
	}

	buildInfoPath := dbg.BuildInfo
	if !filepath.IsAbs(buildInfoPath) {
		buildInfoPath = filepath.Join(filepath.Dir(artifactPath), buildInfoPath)
	}
	data, err = os.ReadFile(buildInfoPath)
	if err != nil {
		return nil, err
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("invalid build info %s: %w", buildInfoPath, err)
	}
	return &info, nil
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
