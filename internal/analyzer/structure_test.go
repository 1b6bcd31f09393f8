package analyzer

import (
	"strings"
	"testing"

	"github.com/danieljhkim/phpsweep/internal/action"
)

func TestStructureAnalyzer_FlagsSimilarDirectories(t *testing.T) {
	// admin and admin_backup share 3 of 4 distinct names: Jaccard 0.75.
	result, err := NewStructureAnalyzer(0).Analyze(recordsFor(
		"admin/index.php",
		"admin/users.php",
		"admin/roles.php",
		"admin_backup/index.php",
		"admin_backup/users.php",
		"admin_backup/roles.php",
		"admin_backup/extra.php",
	))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Actions) != 1 {
		t.Fatalf("got %d actions, want 1", len(result.Actions))
	}
	a := result.Actions[0]
	if a.Type != action.ReportOnly {
		t.Errorf("type = %s, want REPORT_ONLY", a.Type)
	}
	if a.Risk != action.RiskMedium {
		t.Errorf("risk = %s, want MEDIUM below the high mark", a.Risk)
	}
	if a.Destination != nil {
		t.Error("structure findings must not carry a destination")
	}
	if !strings.Contains(a.Reason, "admin") || !strings.Contains(a.Reason, "admin_backup") {
		t.Errorf("reason = %q, want both directories named", a.Reason)
	}
}

func TestStructureAnalyzer_IdenticalDirectoriesAreHigh(t *testing.T) {
	result, err := NewStructureAnalyzer(0).Analyze(recordsFor(
		"v1/a.php",
		"v1/b.php",
		"v2/a.php",
		"v2/b.php",
	))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Actions) != 1 || result.Actions[0].Risk != action.RiskHigh {
		t.Errorf("actions = %+v, want one HIGH for identical name sets", result.Actions)
	}
}

func TestStructureAnalyzer_DissimilarDirectoriesIgnored(t *testing.T) {
	result, err := NewStructureAnalyzer(0).Analyze(recordsFor(
		"models/user.php",
		"models/order.php",
		"views/home.php",
		"views/cart.php",
	))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Actions) != 0 {
		t.Errorf("actions = %+v, want none", result.Actions)
	}
}

func TestStructureAnalyzer_RootFilesGroupedUnderDot(t *testing.T) {
	result, err := NewStructureAnalyzer(0).Analyze(recordsFor(
		"index.php",
		"config.php",
		"mirror/index.php",
		"mirror/config.php",
	))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Actions) != 1 {
		t.Fatalf("got %d actions, want 1", len(result.Actions))
	}
	if result.Actions[0].Source != "." {
		t.Errorf("source = %q, want the root directory as %q", result.Actions[0].Source, ".")
	}
}

func TestStructureAnalyzer_CustomThreshold(t *testing.T) {
	// 1 of 2 names shared: Jaccard 1/3.
	records := recordsFor(
		"a/shared.php",
		"a/only_a.php",
		"b/shared.php",
		"b/only_b.php",
	)

	strict, err := NewStructureAnalyzer(0.5).Analyze(records)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(strict.Actions) != 0 {
		t.Errorf("threshold 0.5 flagged %+v", strict.Actions)
	}

	loose, err := NewStructureAnalyzer(0.3).Analyze(records)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(loose.Actions) != 1 {
		t.Errorf("threshold 0.3 flagged %d pairs, want 1", len(loose.Actions))
	}
}

func TestStructureAnalyzer_PairMetadata(t *testing.T) {
	result, err := NewStructureAnalyzer(0.5).Analyze(recordsFor(
		"x/a.php",
		"x/b.php",
		"y/a.php",
		"y/b.php",
		"y/c.php",
	))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	pairs, ok := result.Metadata["similar_pairs"].([]SimilarPair)
	if !ok || len(pairs) != 1 {
		t.Fatalf("similar_pairs = %v", result.Metadata["similar_pairs"])
	}
	p := pairs[0]
	if p.DirA != "x" || p.DirB != "y" {
		t.Errorf("pair = %s vs %s", p.DirA, p.DirB)
	}
	if len(p.CommonFiles) != 2 || len(p.OnlyInB) != 1 || p.OnlyInB[0] != "c.php" {
		t.Errorf("pair sets = %+v", p)
	}
}
