package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"abandon-report/core/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFormat(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		path     string
		want     tabular.Format
		wantErr  bool
	}{
		{"from csv name", "", "out/report.csv", tabular.FormatCSV, false},
		{"from xlsx name", "", "report.xlsx", tabular.FormatXLSX, false},
		{"explicit wins", "xlsx", "report.csv", tabular.FormatXLSX, false},
		{"legacy excel", "", "report.xls", "", true},
		{"unknown explicit", "pdf", "report.csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reportFormat(tt.explicit, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithExtension(t *testing.T) {
	assert.Equal(t, "report.xlsx", withExtension("report.csv", tabular.FormatXLSX))
	assert.Equal(t, "out/report.csv", withExtension("out/report.csv", tabular.FormatCSV))
	assert.Equal(t, "report.csv", withExtension("report", tabular.FormatCSV))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestReportDiffCommand(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, "current.csv")
	prior := filepath.Join(dir, "prior.csv")
	out := filepath.Join(dir, "new.csv")

	require.NoError(t, os.WriteFile(current, []byte("Numero,Hora,Comentario\nT1,8,\nT2,9,N/A\n"), 0o644))
	require.NoError(t, os.WriteFile(prior, []byte("Numero\nT1\n"), 0o644))

	var stdout bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetArgs([]string{"report", "diff", current, prior, "--output", out})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	})

	require.NoError(t, RootCmd.Execute())
	assert.Contains(t, stdout.String(), "1 of 2 rows are new")

	table, err := tabular.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"T2", "9", "N/A"}}, table.Rows)
}

func TestValidateNewOutput(t *testing.T) {
	tests := []struct {
		name    string
		flags   reportFlags
		want    tabular.Format
		wantErr bool
	}{
		{"not requested", reportFlags{}, "", false},
		{"with prior file", reportFlags{newOutput: "new.xlsx", prior: "last.csv"}, tabular.FormatXLSX, false},
		{"with archive", reportFlags{newOutput: "new.csv", priorFromArchive: true}, tabular.FormatCSV, false},
		{"without prior", reportFlags{newOutput: "new.csv"}, "", true},
		{"legacy excel", reportFlags{newOutput: "new.xls", prior: "last.csv"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateNewOutput(tt.flags)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReportBuildCommand_NewOutputWithoutPrior(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.csv")

	RootCmd.SetArgs([]string{"report", "build",
		"--master", filepath.Join(dir, "missing.csv"),
		"--output", out,
		"--new-output", filepath.Join(dir, "new.csv"),
	})
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		buildFlags = reportFlags{}
	})

	err := RootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--new-output requires")
	assert.NoFileExists(t, out)
}
