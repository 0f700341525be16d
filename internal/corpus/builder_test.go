package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var testDocs = map[string]string{
	"0.md":      "## 概要\nこのポッドキャストの紹介。理学療法士とPTの話。\n",
	"1.md":      "## 第1回 研究の話\n## 概要\n研究と論文について。PTのエビデンス。\n### ▼ オープニング\n### ▼ 研究とは\n",
	"2.md":      "## 第2回 教育の話\n## 概要\n養成校の教育と臨床実習について。\n",
	"2-1.md":    "## 第2.5回 教育の話つづき\n## 概要\n教育と養成校の続き。臨床実習の思い出。\n",
	"番外編-1.md":  "## 概要\n番外編。科学と哲学の雑談。\n",
	"README.md": "# this is not an episode\n",
	"notes.txt": "scratch notes\n",
}

func writeTestCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range testDocs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestBuildDir_CanonicalOrderAndExclusion(t *testing.T) {
	dir := writeTestCorpus(t)

	index, err := NewBuilder().BuildDir(dir)
	if err != nil {
		t.Fatalf("BuildDir failed: %v", err)
	}

	wantIDs := []string{"0", "1", "2", "2-1", "番外編-1"}
	if index.TotalEpisodes != len(wantIDs) {
		t.Fatalf("TotalEpisodes = %d, want %d", index.TotalEpisodes, len(wantIDs))
	}
	for i, want := range wantIDs {
		if index.Episodes[i].ID != want {
			t.Errorf("Episodes[%d].ID = %q, want %q", i, index.Episodes[i].ID, want)
		}
	}

	for _, episode := range index.Episodes {
		if episode.Filename == "README.md" || episode.Filename == "notes.txt" {
			t.Errorf("Excluded document %s appeared in the corpus", episode.Filename)
		}
	}
}

func TestBuildDir_Determinism(t *testing.T) {
	dir := writeTestCorpus(t)

	builder := NewBuilder()
	builder.SetClock(func() time.Time { return time.Unix(0, 0) })

	first, err := builder.BuildDir(dir)
	if err != nil {
		t.Fatalf("First build failed: %v", err)
	}
	second, err := builder.BuildDir(dir)
	if err != nil {
		t.Fatalf("Second build failed: %v", err)
	}

	a, _ := json.Marshal(first.Episodes)
	b, _ := json.Marshal(second.Episodes)
	if string(a) != string(b) {
		t.Error("Two builds of an unchanged corpus produced different episodes")
	}
}

func TestBuildDir_IDUniqueness(t *testing.T) {
	dir := writeTestCorpus(t)

	index, err := NewBuilder().BuildDir(dir)
	if err != nil {
		t.Fatalf("BuildDir failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, episode := range index.Episodes {
		if seen[episode.ID] {
			t.Errorf("Duplicate episode id %q", episode.ID)
		}
		seen[episode.ID] = true
	}
}

func TestBuildDir_NoSelfRelationAndBounds(t *testing.T) {
	dir := writeTestCorpus(t)

	index, err := NewBuilder().BuildDir(dir)
	if err != nil {
		t.Fatalf("BuildDir failed: %v", err)
	}

	ids := make(map[string]bool)
	for _, episode := range index.Episodes {
		ids[episode.ID] = true
	}

	for _, episode := range index.Episodes {
		if len(episode.RelatedEpisodes) > MaxRelatedEpisodes {
			t.Errorf("Episode %s has %d related episodes", episode.ID, len(episode.RelatedEpisodes))
		}
		for _, related := range episode.RelatedEpisodes {
			if related.ID == episode.ID {
				t.Errorf("Episode %s is related to itself", episode.ID)
			}
			if related.Similarity < 30 || related.Similarity > 100 {
				t.Errorf("Episode %s related %s similarity %d out of range", episode.ID, related.ID, related.Similarity)
			}
			if !ids[related.ID] {
				t.Errorf("Related id %q does not resolve to a corpus episode", related.ID)
			}
		}
	}
}

func TestBuildDir_SummaryBound(t *testing.T) {
	dir := writeTestCorpus(t)

	index, err := NewBuilder().BuildDir(dir)
	if err != nil {
		t.Fatalf("BuildDir failed: %v", err)
	}

	for _, episode := range index.Episodes {
		if got := len([]rune(episode.Summary)); got > SummaryMaxLength {
			t.Errorf("Episode %s summary is %d runes", episode.ID, got)
		}
	}
}

func TestBuildDir_MissingDirIsFatal(t *testing.T) {
	_, err := NewBuilder().BuildDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("Expected error for missing corpus directory")
	}
}

func TestBuild_GeneratedAtRFC3339(t *testing.T) {
	builder := NewBuilder()
	builder.SetClock(func() time.Time {
		return time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	})

	index := builder.Build(nil, nil)
	if index.GeneratedAt != "2026-08-23T12:00:00Z" {
		t.Errorf("GeneratedAt = %q", index.GeneratedAt)
	}
	if index.TotalEpisodes != 0 {
		t.Errorf("TotalEpisodes = %d, want 0", index.TotalEpisodes)
	}
}

func TestCollectThemes_SortedDistinct(t *testing.T) {
	dir := writeTestCorpus(t)

	index, err := NewBuilder().BuildDir(dir)
	if err != nil {
		t.Fatalf("BuildDir failed: %v", err)
	}

	themes := CollectThemes(index)

	seen := make(map[string]bool)
	for i, theme := range themes.Themes {
		if seen[theme] {
			t.Errorf("Duplicate theme %q", theme)
		}
		seen[theme] = true
		if i > 0 && themes.Themes[i-1] > theme {
			t.Errorf("Themes not sorted ascending at %d: %v", i, themes.Themes)
		}
	}

	// 教育 appears in episodes 2 and 2-1, once in the list.
	if !seen["教育"] {
		t.Errorf("Expected 教育 in observed themes, got %v", themes.Themes)
	}
}
