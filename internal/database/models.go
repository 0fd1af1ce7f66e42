package database

// Run is one batch generation run over a catalog.
type Run struct {
	ID         int64
	Catalog    string
	Model      string
	Processed  int
	Succeeded  int
	Failed     int
	ReportPath *string
	CSVPath    *string
	StartedAt  *string
	FinishedAt *string
}

// RunProduct is one product's terminal result within a run.
type RunProduct struct {
	ID        int64
	RunID     int64
	Handle    string
	Title     string
	Vendor    *string
	Type      *string
	Outcome   string // "pass", "best_effort" or "failed"
	Tier      *string
	MeanScore float64
	Attempts  int
	CreatedAt *string
}

// ProductFAQ is one stored question/answer pair.
type ProductFAQ struct {
	ID        int64
	ProductID int64
	Position  int // 1..5
	Question  string
	Answer    string
	PairScore int
}

// RunError is a per-product failure recorded during a run.
type RunError struct {
	ID     int64
	RunID  int64
	Handle string
	Title  string
	Reason string
}

// Stats summarizes the whole database for the status command.
type Stats struct {
	TotalRuns      int
	TotalProducts  int
	PassedProducts int
	BestEffort     int
	FailedProducts int
	TierCounts     map[string]int
	AvgAttempts    float64
}
