package config

import (
	"strings"
	"testing"
)

func validPipeline() Pipeline {
	return Pipeline{
		Job: "songlake",
		Source: Source{
			SongData: Location{Kind: "file", Path: "data/song_data"},
			LogData:  Location{Kind: "file", Path: "data/log_data"},
		},
		Sink: Sink{
			Kind:    "parquet",
			Parquet: ParquetConfig{Path: "out"},
		},
	}
}

func hasIssue(issues []Issue, sev IssueSeverity, path string) bool {
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path {
			return true
		}
	}
	return false
}

func TestValidatePipelineOK(t *testing.T) {
	issues := ValidatePipeline(validPipeline())
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			t.Fatalf("unexpected error issue: %v", iss)
		}
	}
}

func TestValidatePipelineMissingSourcePath(t *testing.T) {
	p := validPipeline()
	p.Source.SongData.Path = ""
	issues := ValidatePipeline(p)
	if !hasIssue(issues, SeverityError, "source.song_data.path") {
		t.Fatalf("expected error at source.song_data.path, got %v", issues)
	}
}

func TestValidatePipelineHTTPNeedsURL(t *testing.T) {
	p := validPipeline()
	p.Source.LogData = Location{Kind: "http"}
	issues := ValidatePipeline(p)
	if !hasIssue(issues, SeverityError, "source.log_data.url") {
		t.Fatalf("expected error at source.log_data.url, got %v", issues)
	}
}

func TestValidatePipelineSinkDSN(t *testing.T) {
	p := validPipeline()
	p.Sink = Sink{Kind: "postgres"}
	issues := ValidatePipeline(p)
	if !hasIssue(issues, SeverityError, "sink.db.dsn") {
		t.Fatalf("expected error at sink.db.dsn, got %v", issues)
	}
}

func TestValidatePipelineUnknownKindsWarn(t *testing.T) {
	p := validPipeline()
	p.Source.SongData.Kind = "s3"
	p.Sink.Kind = "duckdb"
	issues := ValidatePipeline(p)
	if !hasIssue(issues, SeverityWarning, "source.song_data.kind") {
		t.Fatalf("expected warning at source.song_data.kind, got %v", issues)
	}
	if !hasIssue(issues, SeverityWarning, "sink.kind") {
		t.Fatalf("expected warning at sink.kind, got %v", issues)
	}
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			t.Fatalf("unknown kinds should warn, not error: %v", iss)
		}
	}
}

func TestValidatePipelineNegativeRuntime(t *testing.T) {
	p := validPipeline()
	p.Runtime.ReaderWorkers = -1
	issues := ValidatePipeline(p)
	if !hasIssue(issues, SeverityError, "runtime.reader_workers") {
		t.Fatalf("expected error at runtime.reader_workers, got %v", issues)
	}
}

func TestIssueError(t *testing.T) {
	iss := Issue{Severity: SeverityError, Path: "sink.kind", Message: "boom"}
	if got := iss.Error(); !strings.Contains(got, "sink.kind") || !strings.Contains(got, "boom") {
		t.Fatalf("Error()=%q", got)
	}
}
