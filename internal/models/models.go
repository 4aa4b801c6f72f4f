package models

// Chunk is a fixed-size slice of one document page's text, tagged with the
// provenance needed for citation. Chunks are immutable once created.
type Chunk struct {
	Text   string
	Source string
	Page   int // 0-based page index within the source document
}

// RetrievedPassage is a chunk returned by a similarity search, together with
// its 0-based rank in the result list. Produced per query, never persisted.
type RetrievedPassage struct {
	Chunk      Chunk
	Rank       int
	Similarity float32
}

type DocumentStatus string

const (
	DocumentOK      DocumentStatus = "ok"
	DocumentSkipped DocumentStatus = "skipped"
)

// DocumentResult is the per-document outcome of a corpus scan. A document
// that fails to parse is recorded as skipped with a reason instead of
// aborting the build.
type DocumentResult struct {
	Filename string         `json:"filename"`
	Label    string         `json:"label"`
	Status   DocumentStatus `json:"status"`
	Reason   string         `json:"reason,omitempty"`
	Pages    int            `json:"pages"`
	Chunks   int            `json:"chunks"`
}

// BuildReport aggregates the results of chunking a corpus directory.
type BuildReport struct {
	Documents []DocumentResult `json:"documents"`
	Chunks    []Chunk          `json:"-"`
	Sources   []string         `json:"sources"`
}

// ChunkCount returns the number of chunks produced by the scan.
func (r *BuildReport) ChunkCount() int {
	return len(r.Chunks)
}

// Skipped returns the documents that could not be read.
func (r *BuildReport) Skipped() []DocumentResult {
	var skipped []DocumentResult
	for _, d := range r.Documents {
		if d.Status == DocumentSkipped {
			skipped = append(skipped, d)
		}
	}
	return skipped
}

type PromptResponse struct {
	Query   string
	Source  string
	Content string
}
