package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/disperse-validator/internal/disperse"
	"github.com/ginjaninja78/disperse-validator/internal/resolver"
	"github.com/ginjaninja78/disperse-validator/internal/source"
	"github.com/ginjaninja78/disperse-validator/internal/writer"
)

const (
	addr1 = "0x1111111111111111111111111111111111111111"
	addr2 = "0x2222222222222222222222222222222222222222"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func noConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.yaml")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    []string
	}{
		{
			name: "clean list",
			body: addr1 + "=1\n" + addr2 + " 2\n",
			want: []string{"2 line(s)", "no errors"},
		},
		{
			name:    "line errors",
			body:    addr1 + "=1\nnot-an-address\n0xshort 5",
			wantErr: true,
			want: []string{
				"Line 2 is invalid",
				"Line 3 has an invalid Ethereum address",
			},
		},
		{
			name:    "duplicates",
			body:    addr1 + "=1\n" + addr2 + ",2\n" + addr1 + " 3",
			wantErr: true,
			want:    []string{"Address " + addr1 + " is duplicated in line(s): 1, 3"},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, fmt.Sprintf("list%d.txt", i), tt.body)

			out, _, err := execute(t, "check", path, "--config", noConfig(t), "--numbered=false")

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestCheck_Numbered(t *testing.T) {
	path := writeFile(t, t.TempDir(), "list.txt", addr1+"=1")

	out, _, err := execute(t, "check", path, "--config", noConfig(t), "--numbered")
	require.NoError(t, err)
	assert.Contains(t, out, "1 | "+addr1+"=1")
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "list.txt", addr1+"=1\n"+addr2+",2\n"+addr1+" 3")

	tests := []struct {
		strategy string
		want     string
	}{
		{strategy: "keep", want: addr1 + "=1\n" + addr2 + "=2\n"},
		{strategy: "combine", want: addr1 + "=4\n" + addr2 + "=2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			out, errOut, err := execute(t, "resolve", path, "--config", noConfig(t), "--strategy", tt.strategy, "--out=")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Contains(t, errOut, "duplicated in line(s): 1, 3")
		})
	}
}

func TestResolve_Failures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		body     string
		strategy string
		wantErr  error
	}{
		{name: "line errors", body: addr1 + "=1\nbad", strategy: "keep", wantErr: ErrValidationFailed},
		{name: "combine with invalid amount", body: addr1 + "=1\n" + addr1 + "=abc", strategy: "combine", wantErr: resolver.ErrInvalidAmount},
		{name: "unknown strategy", body: addr1 + "=1", strategy: "average"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, fmt.Sprintf("list%d.txt", i), tt.body)

			_, _, err := execute(t, "resolve", path, "--config", noConfig(t), "--strategy", tt.strategy, "--out=")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestResolve_WritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "list.csv", addr1+",1\n"+addr1+",2")
	out := filepath.Join(dir, "resolved.xlsx")

	_, _, err := execute(t, "resolve", path, "--config", noConfig(t), "--strategy", "combine", "--out", out)
	require.NoError(t, err)

	text, err := source.Read(out)
	require.NoError(t, err)
	assert.Equal(t, addr1+"=3", text)
}

func TestProcess(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "input")
	outputDir := filepath.Join(root, "output")
	require.NoError(t, os.MkdirAll(inputDir, 0o755))

	cfgPath := writeFile(t, root, "config.yaml", strings.Join([]string{
		"input_dir: " + inputDir,
		"output_dir: " + outputDir,
		"input_archive_dir: " + filepath.Join(root, "input_archive"),
		"output_archive_dir: " + filepath.Join(root, "output_archive"),
		"default_strategy: combine",
		"max_concurrency: 2",
	}, "\n"))

	writeFile(t, inputDir, "good.txt", addr1+"=1\n"+addr1+"=2")
	writeFile(t, inputDir, "bad.txt", "bad")

	out, _, err := execute(t, "process", "--config", cfgPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProcessingFailed)
	assert.Contains(t, out, "Successful:   1")
	assert.Contains(t, out, "Failed:       1")

	logs, err := filepath.Glob(filepath.Join(outputDir, "error_log_*.txt"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	data, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Line 1 is invalid")

	summaries, err := filepath.Glob(filepath.Join(outputDir, "processing_summary_*.txt"))
	require.NoError(t, err)
	assert.Len(t, summaries, 1)

	_, err = os.Stat(filepath.Join(inputDir, "bad.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(inputDir, "good.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExample(t *testing.T) {
	out, _, err := execute(t, "example", "--config", noConfig(t), "--numbered=false")
	require.NoError(t, err)
	assert.Equal(t, disperse.ExampleText+"\n", out)
}

func TestExample_FlagsAreIndependent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "list.txt", addr1+"=1")

	_, _, err := execute(t, "check", path, "--config", noConfig(t), "--numbered")
	require.NoError(t, err)

	out, _, err := execute(t, "example", "--config", noConfig(t))
	require.NoError(t, err)
	assert.Equal(t, disperse.ExampleText+"\n", out)

	out, _, err = execute(t, "example", "--config", noConfig(t), "--numbered")
	require.NoError(t, err)
	assert.Equal(t, disperse.NumberLines(disperse.ExampleText)+"\n", out)

	_, _, err = execute(t, "example", "--config", noConfig(t), "--numbered=false")
	require.NoError(t, err)
}

func TestCheck_ReportsMalformedLines(t *testing.T) {
	path := writeFile(t, t.TempDir(), "list.txt", addr1+"=1\nbad\n\n"+addr2+"=1e900000000")

	out, _, err := execute(t, "check", path, "--config", noConfig(t), "--numbered=false")
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out, "4 line(s), 2 entr(ies), 2 malformed")
	assert.Contains(t, out, "Line 4 has an invalid amount")
}

func TestResolve_RejectsOutOfRangeAmount(t *testing.T) {
	path := writeFile(t, t.TempDir(), "list.txt", addr1+"=1e900000000\n"+addr1+"=1")

	_, _, err := execute(t, "resolve", path, "--config", noConfig(t), "--strategy", "combine", "--out=")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, writer.FormatXLSX, formatForPath("a/b.XLSX"))
	assert.Equal(t, writer.FormatCSV, formatForPath("b.csv"))
	assert.Equal(t, writer.FormatText, formatForPath("b.txt"))
	assert.Equal(t, writer.FormatText, formatForPath("b"))
}

func TestSetupLogging(t *testing.T) {
	_, err := setupLogging("debug", "json")
	assert.NoError(t, err)

	_, err = setupLogging("loud", "console")
	assert.Error(t, err)

	_, err = setupLogging("info", "xml")
	assert.Error(t, err)
}
