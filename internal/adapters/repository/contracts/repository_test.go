package contracts

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
)

const fundMeABI = `[{"type":"constructor","inputs":[{"name":"priceFeed","type":"address"}],"stateMutability":"nonpayable"}]`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestRepository(dir string) *Repository {
	return NewRepositoryAt(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRepository_Hardhat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "contracts/FundMe.sol/FundMe.json"), `{
		"_format": "hh-sol-artifact-1",
		"contractName": "FundMe",
		"sourceName": "contracts/FundMe.sol",
		"abi": `+fundMeABI+`,
		"bytecode": "0x6001600c60003960016000f300"
	}`)
	writeFile(t, filepath.Join(dir, "contracts/FundMe.sol/FundMe.dbg.json"), `{
		"_format": "hh-sol-dbg-1",
		"buildInfo": "../../build-info/abc123.json"
	}`)
	writeFile(t, filepath.Join(dir, "build-info/abc123.json"), `{
		"solcVersion": "0.8.8",
		"solcLongVersion": "0.8.8+commit.dddeac2f",
		"input": {"language": "Solidity", "sources": {}}
	}`)

	repo := newTestRepository(dir)
	artifact, err := repo.GetArtifact(context.Background(), "FundMe")
	require.NoError(t, err)

	assert.Equal(t, "FundMe", artifact.Name)
	assert.Equal(t, "contracts/FundMe.sol:FundMe", artifact.FullyQualifiedName())
	assert.Len(t, artifact.ABI.Constructor.Inputs, 1)
	assert.Equal(t, []byte{0x60, 0x01, 0x60, 0x0c, 0x60, 0x00, 0x39, 0x60, 0x01, 0x60, 0x00, 0xf3, 0x00}, artifact.Bytecode)
	require.NotNil(t, artifact.BuildInfo)
	assert.Equal(t, "0.8.8+commit.dddeac2f", artifact.BuildInfo.SolcLongVersion)
	assert.JSONEq(t, `{"language": "Solidity", "sources": {}}`, string(artifact.BuildInfo.Input))

	byFQN, err := repo.GetArtifact(context.Background(), "contracts/FundMe.sol:FundMe")
	require.NoError(t, err)
	assert.Same(t, artifact, byFQN)
}

func TestRepository_Foundry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "FundMe.sol/FundMe.json"), `{
		"abi": `+fundMeABI+`,
		"bytecode": {"object": "0x00", "linkReferences": {}},
		"metadata": {
			"compiler": {"version": "0.8.19+commit.7dd6d404"},
			"settings": {"compilationTarget": {"src/FundMe.sol": "FundMe"}}
		}
	}`)
	writeFile(t, filepath.Join(dir, "build-info/ignored.json"), `{"not": "an artifact"}`)

	artifact, err := newTestRepository(dir).GetArtifact(context.Background(), "FundMe")
	require.NoError(t, err)

	assert.Equal(t, "src/FundMe.sol", artifact.SourceName)
	assert.Equal(t, []byte{0x00}, artifact.Bytecode)
	require.NotNil(t, artifact.BuildInfo)
	assert.Equal(t, "0.8.19", artifact.BuildInfo.SolcVersion)
	assert.Empty(t, artifact.BuildInfo.Input)
}

func TestRepository_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := newTestRepository(filepath.Join(t.TempDir(), "artifacts")).GetArtifact(context.Background(), "FundMe")
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("unknown contract", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "contracts/FundMe.sol/FundMe.json"),
			`{"contractName": "FundMe", "sourceName": "contracts/FundMe.sol", "abi": [], "bytecode": "0x"}`)

		repo := newTestRepository(dir)
		_, err := repo.GetArtifact(context.Background(), "MockV3Aggregator")
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

		// Interfaces have no creation bytecode
		artifact, err := repo.GetArtifact(context.Background(), "FundMe")
		require.NoError(t, err)
		assert.Empty(t, artifact.Bytecode)
	})

	t.Run("ambiguous name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "contracts/a/Mock.sol/Mock.json"),
			`{"contractName": "Mock", "sourceName": "contracts/a/Mock.sol", "abi": [], "bytecode": "0x00"}`)
		writeFile(t, filepath.Join(dir, "contracts/b/Mock.sol/Mock.json"),
			`{"contractName": "Mock", "sourceName": "contracts/b/Mock.sol", "abi": [], "bytecode": "0x00"}`)

		repo := newTestRepository(dir)
		_, err := repo.GetArtifact(context.Background(), "Mock")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contracts/a/Mock.sol:Mock, contracts/b/Mock.sol:Mock")

		_, err = repo.GetArtifact(context.Background(), "contracts/b/Mock.sol:Mock")
		assert.NoError(t, err)
	})

	t.Run("unlinked bytecode", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "contracts/Lib.sol/User.json"),
			`{"contractName": "User", "sourceName": "contracts/Lib.sol", "abi": [], "bytecode": "0x73__$abc$__"}`)

		_, err := newTestRepository(dir).GetArtifact(context.Background(), "User")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unlinked libraries")
	})
}
