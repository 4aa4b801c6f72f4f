package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"policy-rag/internal/labels"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpusFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestChunkCorpus_WindowingReconstructsPage(t *testing.T) {
	dir := t.TempDir()
	pageText := strings.Repeat("abcdefghij", 250) // 2500 chars
	writeCorpusFile(t, dir, "backup_policy.txt", pageText)

	report, err := ChunkCorpus(dir, labels.NewResolver(nil), 1000, nil)
	require.NoError(t, err)

	// ceil(2500/1000) windows, each at most 1000 runes
	require.Len(t, report.Chunks, 3)
	var rebuilt strings.Builder
	for _, c := range report.Chunks {
		assert.LessOrEqual(t, len([]rune(c.Text)), 1000)
		assert.Equal(t, "Backup Policy", c.Source)
		assert.Equal(t, 0, c.Page)
		rebuilt.WriteString(c.Text)
	}
	assert.Equal(t, pageText, rebuilt.String())
}

func TestChunkCorpus_ProvenanceTotality(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "access_policy.txt", strings.Repeat("access rules ", 200))
	writeCorpusFile(t, dir, "incident_plan.md", "# Incident Plan\n\nIsolate the host. Notify the SOC.")

	report, err := ChunkCorpus(dir, labels.NewResolver(nil), 0, nil)
	require.NoError(t, err)
	require.NotEmpty(t, report.Chunks)

	for _, c := range report.Chunks {
		assert.NotEmpty(t, c.Source)
		assert.GreaterOrEqual(t, c.Page, 0)
		assert.NotEmpty(t, c.Text)
	}
}

func TestChunkCorpus_MissingDirCreatedEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")

	report, err := ChunkCorpus(dir, labels.NewResolver(nil), 1000, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Chunks)
	assert.Empty(t, report.Documents)
	assert.DirExists(t, dir)
}

func TestChunkCorpus_BlankDocumentContributesNothing(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "empty_policy.txt", "   \n\t\n")

	report, err := ChunkCorpus(dir, labels.NewResolver(nil), 1000, nil)
	require.NoError(t, err)

	require.Len(t, report.Documents, 1)
	assert.Equal(t, 0, report.Documents[0].Chunks)
	assert.Empty(t, report.Chunks)
	assert.Empty(t, report.Sources)
}

func TestChunkCorpus_UnreadableDocumentSkipped(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "broken.pdf", "this is not a pdf")
	writeCorpusFile(t, dir, "usage_policy.txt", "No personal use of production systems.")

	report, err := ChunkCorpus(dir, labels.NewResolver(nil), 1000, nil)
	require.NoError(t, err)

	require.Len(t, report.Documents, 2)
	broken := report.Documents[0]
	assert.Equal(t, "broken.pdf", broken.Filename)
	assert.Equal(t, "skipped", string(broken.Status))
	assert.NotEmpty(t, broken.Reason)

	require.Len(t, report.Skipped(), 1)
	assert.Equal(t, []string{"Usage Policy"}, report.Sources)
	require.NotEmpty(t, report.Chunks)
}

func TestChunkCorpus_ProgressObserver(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "a_policy.txt", "first policy")
	writeCorpusFile(t, dir, "b_policy.txt", "second policy")

	var dones []int
	var names []string
	_, err := ChunkCorpus(dir, labels.NewResolver(nil), 1000, func(done, total int, filename string) {
		assert.Equal(t, 2, total)
		dones = append(dones, done)
		names = append(names, filename)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, dones)
	assert.Equal(t, []string{"a_policy.txt", "b_policy.txt"}, names)
}

func TestChunkCorpus_MarkdownExtractsPlainText(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "crypto_standard.md", "# Encryption\n\nUse AES-256 for data at rest.\n\n- rotate keys yearly\n")

	report, err := ChunkCorpus(dir, labels.NewResolver(nil), 1000, nil)
	require.NoError(t, err)
	require.Len(t, report.Chunks, 1)

	text := report.Chunks[0].Text
	assert.Contains(t, text, "Encryption")
	assert.Contains(t, text, "AES-256")
	assert.Contains(t, text, "rotate keys yearly")
	assert.NotContains(t, text, "#")
}

func TestSplitWindows(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		windows []string
	}{
		{"empty", "", 5, nil},
		{"shorter than window", "abc", 5, []string{"abc"}},
		{"exact multiple", "abcdef", 3, []string{"abc", "def"}},
		{"remainder", "abcdefg", 3, []string{"abc", "def", "g"}},
		{"multibyte runes", "ação é útil", 4, []string{"ação", " é ú", "til"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitWindows(tt.text, tt.size)
			assert.Equal(t, tt.windows, got)
			assert.Equal(t, tt.text, strings.Join(got, ""))
		})
	}
}
