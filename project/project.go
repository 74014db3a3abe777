package project

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/sol/solidity"
)

// ConfigFile is the name of the optional per-project configuration file.
const ConfigFile = ".sol.yaml"

// Layout names the build tool a project directory was detected as.
type Layout string

const (
	LayoutFoundry Layout = "foundry"
	LayoutHardhat Layout = "hardhat"
	LayoutPlain   Layout = "plain"
)

// Config is the content of .sol.yaml. Every field is optional.
type Config struct {
	// Sources are the directories scanned for documents, relative to the
	// project root.
	Sources []string `yaml:"sources,omitempty"`
	// Libs are the directories non-relative imports are looked up in.
	Libs []string `yaml:"libs,omitempty"`
	// Remappings rewrite import prefixes, e.g. "@oz/=lib/openzeppelin/".
	Remappings []string `yaml:"remappings,omitempty"`
	// Exclude holds glob patterns matched against file and directory names
	// and against paths relative to the root.
	Exclude    []string      `yaml:"exclude,omitempty"`
	Extensions []string      `yaml:"extensions,omitempty"`
	Watch      bool          `yaml:"watch"`
	Poll       time.Duration `yaml:"poll,omitempty"`
	Log        LogConfig     `yaml:"log"`
}

type LogConfig struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file,omitempty"`
}

// Project is a directory of Solidity sources.
type Project struct {
	RootDir string
	Layout  Layout
	Config  Config
	// ConfigPath is the configuration file that was read, if any.
	ConfigPath string
}

// DefaultConfig returns the configuration used for a layout when no
// configuration file overrides it.
func DefaultConfig(layout Layout) Config {
	cfg := Config{
		Extensions: []string{".sol"},
		Exclude:    []string{".*", "out", "cache", "artifacts", "typechain-types"},
		Watch:      true,
		Poll:       time.Second,
	}
	switch layout {
	case LayoutFoundry:
		cfg.Sources = []string{"src", "test", "script"}
		cfg.Libs = []string{"lib"}
	case LayoutHardhat:
		cfg.Sources = []string{"contracts", "test"}
		cfg.Libs = []string{"node_modules"}
	default:
		cfg.Sources = []string{"."}
		cfg.Exclude = append(cfg.Exclude, "node_modules", "lib")
	}
	return cfg
}

// Load reads the project in the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom detects the layout of rootDir and reads its configuration file.
// A missing configuration file is not an error.
func LoadFrom(rootDir string) (*Project, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	proj := &Project{RootDir: abs, Layout: DetectLayout(abs)}
	proj.Config = DefaultConfig(proj.Layout)

	path := filepath.Join(abs, ConfigFile)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", ConfigFile, err)
	default:
		if err := yaml.Unmarshal(data, &proj.Config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		proj.ConfigPath = path
	}

	if proj.Layout == LayoutFoundry {
		remappings, err := readRemappings(filepath.Join(abs, "remappings.txt"))
		if err != nil {
			return nil, err
		}
		proj.Config.Remappings = append(proj.Config.Remappings, remappings...)
	}
	if len(proj.Config.Extensions) == 0 {
		proj.Config.Extensions = []string{".sol"}
	}
	return proj, nil
}

// DetectLayout looks for foundry.toml or a hardhat config in dir.
func DetectLayout(dir string) Layout {
	if fileExists(filepath.Join(dir, "foundry.toml")) {
		return LayoutFoundry
	}
	for _, name := range []string{"hardhat.config.js", "hardhat.config.ts", "hardhat.config.cjs"} {
		if fileExists(filepath.Join(dir, name)) {
			return LayoutHardhat
		}
	}
	return LayoutPlain
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func readRemappings(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read remappings: %w", err)
	}
	var remappings []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		remappings = append(remappings, line)
	}
	return remappings, scanner.Err()
}

// Save writes the configuration file of the project.
func (p *Project) Save() error {
	data, err := yaml.Marshal(&p.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	path := filepath.Join(p.RootDir, ConfigFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	p.ConfigPath = path
	return nil
}

// SourceDirs returns the existing source directories as absolute paths.
func (p *Project) SourceDirs() []string {
	var dirs []string
	for _, dir := range p.Config.Sources {
		abs := p.abs(dir)
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			dirs = append(dirs, abs)
		}
	}
	return dirs
}

// ImportRoots returns the project root followed by every library directory.
func (p *Project) ImportRoots() []string {
	roots := []string{p.RootDir}
	for _, lib := range p.Config.Libs {
		roots = append(roots, p.abs(lib))
	}
	return roots
}

func (p *Project) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.RootDir, path)
}

// ImportCandidates lists the files importPath may refer to when imported
// from the file at from. The longest matching remapping is applied first.
func (p *Project) ImportCandidates(from, importPath string) []string {
	var candidates []string
	if remapped, ok := p.remap(importPath); ok {
		candidates = append(candidates, p.abs(remapped))
	}
	return append(candidates, solidity.ImportCandidates(from, importPath, p.ImportRoots()...)...)
}

func (p *Project) remap(importPath string) (string, bool) {
	best := ""
	target := ""
	for _, r := range p.Config.Remappings {
		// foundry allows a "context:" prefix; it is ignored here.
		if i := strings.Index(r, ":"); i >= 0 && i < strings.Index(r, "=") {
			r = r[i+1:]
		}
		prefix, to, ok := strings.Cut(r, "=")
		if !ok || !strings.HasPrefix(importPath, prefix) || len(prefix) <= len(best) {
			continue
		}
		best, target = prefix, to
	}
	if best == "" {
		return "", false
	}
	return target + strings.TrimPrefix(importPath, best), true
}

// Excluded reports whether path matches one of the exclude patterns.
func (p *Project) Excluded(path string) bool {
	rel, err := filepath.Rel(p.RootDir, path)
	if err != nil {
		rel = path
	}
	base := filepath.Base(path)
	for _, pattern := range p.Config.Exclude {
		if base != "." && matches(pattern, base) || matches(pattern, filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

func matches(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

// IsSource reports whether path has one of the configured extensions.
func (p *Project) IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range p.Config.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// SourceFiles walks the source directories and returns every source file
// that is not excluded, sorted and without duplicates.
func (p *Project) SourceFiles() ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, dir := range p.SourceDirs() {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != dir && p.Excluded(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !p.IsSource(path) || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan sources in %s: %w", dir, err)
		}
	}
	sort.Strings(files)
	return files, nil
}
