package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, 0, cfg.Output.Context)
	assert.False(t, cfg.Output.Quiet)
	assert.Empty(t, cfg.Diff.IgnorePaths)
	assert.Empty(t, cfg.IgnorePatterns())
}

func TestLoadConfig_FullFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, ".yamldiff.yml", `
output:
  format: json
  color: false
  context: 2
  quiet: true
diff:
  ignore_paths:
    - '^metadata\.'
    - '\.generation$'
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
	assert.Equal(t, 2, cfg.Output.Context)
	assert.True(t, cfg.Output.Quiet)
	require.Len(t, cfg.IgnorePatterns(), 2)
	assert.True(t, cfg.IgnorePatterns()[0].MatchString("metadata.labels"))
	assert.False(t, cfg.IgnorePatterns()[0].MatchString("spec.metadata"))
	assert.True(t, cfg.IgnorePatterns()[1].MatchString("status.generation"))
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, ".yamldiff.yml", "output:\n  format: yaml\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Output.Format)
	// Keys absent from the file keep their defaults
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, 0, cfg.Output.Context)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, ".yamldiff.yml", "output: [unclosed\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_InvalidIgnorePattern(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, ".yamldiff.yml", "diff:\n  ignore_paths:\n    - '['\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ignore pattern")
}

func TestAddIgnorePatterns(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.AddIgnorePatterns([]string{`^spec\.`}))
	require.Len(t, cfg.IgnorePatterns(), 1)
	assert.True(t, cfg.IgnorePatterns()[0].MatchString("spec.replicas"))

	err := cfg.AddIgnorePatterns([]string{"["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ignore pattern")
}

func TestFindConfigFile_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	expected := writeConfigFile(t, root, ".yamldiff.yml", "output:\n  format: text\n")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(cwd) }()
	require.NoError(t, os.Chdir(nested))

	found := FindConfigFile()
	require.NotEmpty(t, found)
	// Resolve symlinks before comparing; temp dirs are links on some systems
	wantResolved, err := filepath.EvalSymlinks(expected)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, wantResolved, gotResolved)
}

func TestLoadConfigWithCLI_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, ".yamldiff.yml", `
output:
  format: json
  color: true
diff:
  ignore_paths:
    - '^metadata\.'
`)

	cfg, err := LoadConfigWithCLI(path, CLIOverrides{
		Format: "yaml", FormatSet: true,
		Context: 3, ContextSet: true,
		Quiet: true, QuietSet: true,
		NoColor: true, NoColorSet: true,
		Ignore: []string{`^status\.`},
	})
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 3, cfg.Output.Context)
	assert.True(t, cfg.Output.Quiet)
	assert.False(t, cfg.Output.Color)
	require.Len(t, cfg.IgnorePatterns(), 2)
}

func TestLoadConfigWithCLI_FileValuesWinWhenFlagsUnset(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, ".yamldiff.yml", "output:\n  format: json\n  context: 2\n")

	cfg, err := LoadConfigWithCLI(path, CLIOverrides{Format: "text", Context: 0})
	require.NoError(t, err)

	// No flag was marked as given, so the file values stand
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Output.Context)
}

func TestLoadConfigWithCLI_ExplicitDefaultValueOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, ".yamldiff.yml", "output:\n  format: json\n  context: 2\n  quiet: true\n")

	// The values equal the flag defaults, but the flags were explicitly
	// given and must still win over the file
	cfg, err := LoadConfigWithCLI(path, CLIOverrides{
		Format: "text", FormatSet: true,
		Context: 0, ContextSet: true,
		Quiet: false, QuietSet: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 0, cfg.Output.Context)
	assert.False(t, cfg.Output.Quiet)
}

func TestLoadConfigWithCLI_NoConfigFile(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(cwd) }()
	// Run discovery from an empty temp dir so no repo config interferes
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := LoadConfigWithCLI("", CLIOverrides{Format: "json", FormatSet: true})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
}
