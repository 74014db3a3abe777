package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name   string
		marker string
		want   Layout
	}{
		{"foundry", "foundry.toml", LayoutFoundry},
		{"hardhat js", "hardhat.config.js", LayoutHardhat},
		{"hardhat ts", "hardhat.config.ts", LayoutHardhat},
		{"plain", "", LayoutPlain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.marker != "" {
				writeFile(t, filepath.Join(dir, tt.marker), "")
			}
			assert.Equal(t, tt.want, DetectLayout(dir))
		})
	}
}

func TestLoadFromDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "foundry.toml"), "[profile.default]\n")

	proj, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, LayoutFoundry, proj.Layout)
	assert.Equal(t, []string{"src", "test", "script"}, proj.Config.Sources)
	assert.Equal(t, []string{"lib"}, proj.Config.Libs)
	assert.Empty(t, proj.ConfigPath)
	assert.True(t, proj.Config.Watch)
	assert.Equal(t, time.Second, proj.Config.Poll)
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFile), `sources: [contracts]
exclude: [mocks]
watch: false
poll: 250ms
log:
  verbosity: 2
  file: sol.log
`)

	proj, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, LayoutPlain, proj.Layout)
	assert.Equal(t, filepath.Join(proj.RootDir, ConfigFile), proj.ConfigPath)
	assert.Equal(t, []string{"contracts"}, proj.Config.Sources)
	assert.Equal(t, []string{"mocks"}, proj.Config.Exclude)
	assert.False(t, proj.Config.Watch)
	assert.Equal(t, 250*time.Millisecond, proj.Config.Poll)
	assert.Equal(t, 2, proj.Config.Log.Verbosity)
	assert.Equal(t, "sol.log", proj.Config.Log.File)
	assert.Equal(t, []string{".sol"}, proj.Config.Extensions)
}

func TestLoadFromInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFile), "sources: {not: [a list\n")

	_, err := LoadFrom(dir)
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	proj, err := LoadFrom(dir)
	require.NoError(t, err)

	proj.Config.Poll = 2 * time.Second
	proj.Config.Remappings = []string{"@oz/=lib/oz/"}
	require.NoError(t, proj.Save())
	assert.FileExists(t, filepath.Join(dir, ConfigFile))

	reloaded, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, proj.Config, reloaded.Config)
}

func TestImportCandidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "foundry.toml"), "")
	writeFile(t, filepath.Join(dir, "remappings.txt"), `# comment
@oz/=lib/openzeppelin-contracts/contracts/

@oz/token/=vendor/token/
`)

	proj, err := LoadFrom(dir)
	require.NoError(t, err)
	root := proj.RootDir
	from := filepath.Join(root, "src", "Token.sol")

	tests := []struct {
		name       string
		importPath string
		want       []string
	}{
		{
			name:       "relative",
			importPath: "./Lib.sol",
			want:       []string{filepath.Join(root, "src", "Lib.sol")},
		},
		{
			name:       "parent relative",
			importPath: "../lib/Lib.sol",
			want:       []string{filepath.Join(root, "lib", "Lib.sol")},
		},
		{
			name:       "remapped",
			importPath: "@oz/utils/Context.sol",
			want: []string{
				filepath.Join(root, "lib", "openzeppelin-contracts", "contracts", "utils", "Context.sol"),
				filepath.Join(root, "@oz", "utils", "Context.sol"),
				filepath.Join(root, "lib", "@oz", "utils", "Context.sol"),
				filepath.Join("@oz", "utils", "Context.sol"),
			},
		},
		{
			name:       "longest remapping wins",
			importPath: "@oz/token/ERC20.sol",
			want: []string{
				filepath.Join(root, "vendor", "token", "ERC20.sol"),
				filepath.Join(root, "@oz", "token", "ERC20.sol"),
				filepath.Join(root, "lib", "@oz", "token", "ERC20.sol"),
				filepath.Join("@oz", "token", "ERC20.sol"),
			},
		},
		{
			name:       "library root",
			importPath: "forge-std/Test.sol",
			want: []string{
				filepath.Join(root, "forge-std", "Test.sol"),
				filepath.Join(root, "lib", "forge-std", "Test.sol"),
				filepath.Join("forge-std", "Test.sol"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, proj.ImportCandidates(from, tt.importPath))
		})
	}
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"A.sol",
		"contracts/B.sol",
		"contracts/notes.txt",
		"lib/forge-std/Test.sol",
		"node_modules/pkg/C.sol",
		".git/D.sol",
		"out/E.sol",
		"mocks/F.sol",
	} {
		writeFile(t, filepath.Join(dir, name), "contract X {}\n")
	}
	writeFile(t, filepath.Join(dir, ConfigFile), "exclude: [mocks, node_modules, lib, out, \".*\"]\n")

	proj, err := LoadFrom(dir)
	require.NoError(t, err)

	files, err := proj.SourceFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(proj.RootDir, "A.sol"),
		filepath.Join(proj.RootDir, "contracts", "B.sol"),
	}, files)
}

func TestExcluded(t *testing.T) {
	proj := &Project{RootDir: "/work", Config: DefaultConfig(LayoutPlain)}

	assert.True(t, proj.Excluded("/work/node_modules"))
	assert.True(t, proj.Excluded("/work/.git"))
	assert.True(t, proj.Excluded("/work/src/out"))
	assert.False(t, proj.Excluded("/work/src/Token.sol"))
	assert.True(t, proj.IsSource("/work/src/Token.sol"))
	assert.False(t, proj.IsSource("/work/src/Token.t.js"))
}
