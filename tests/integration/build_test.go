package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/podatlas/podatlas/internal/app"
	"github.com/podatlas/podatlas/internal/corpus"
	"github.com/podatlas/podatlas/internal/domain"
	"github.com/podatlas/podatlas/internal/server"
	"github.com/spf13/pflag"
)

// transcripts is a miniature corpus exercising every filename form plus the
// documents that must be excluded.
var transcripts = map[string]string{
	"0.md": `## 概要
> このポッドキャストの紹介回です。理学療法士の二人が科学と臨床の話をします。
`,
	"1.md": `## 第1回 研究のはじめかた
## 概要
研究と論文のはじめかた。PTとしてエビデンスにどう向き合うか。
### ▼ オープニング
### ▼ 研究テーマの決めかた
### ▼ エンディング
`,
	"2.md": `## 第2回 養成校の教育
## 概要
養成校の教育と臨床実習について。国家試験の思い出。
### ▼ 養成校のカリキュラム
`,
	"2-1.md": `## 第2.5回 養成校の教育 つづき
## 概要
教育の続き。養成校と臨床実習のエピソード。国家試験対策も。
`,
	"3.md": `## 第3回 統計のきほん
## 概要
統計解析のきほんと論文の読みかた。研究のエビデンスレベル。
`,
	"番外編-1.md": `## 概要
番外編。科学と哲学の雑談回。
`,
	"README.md": "# transcripts\nこのディレクトリの説明。\n",
	"notes.txt": "適当なメモ\n",
}

func runBuild(t *testing.T) string {
	t.Helper()

	corpusDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "data")
	for name, content := range transcripts {
		if err := os.WriteFile(filepath.Join(corpusDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	app.RegisterBuildFlags(flags)
	if err := flags.Set("corpus-dir", corpusDir); err != nil {
		t.Fatal(err)
	}
	if err := flags.Set("output-dir", outputDir); err != nil {
		t.Fatal(err)
	}

	if err := app.RunBuild(context.Background(), app.DefaultRunParams(), flags, "test"); err != nil {
		t.Fatalf("RunBuild failed: %v", err)
	}
	return outputDir
}

func TestBuild_ArtifactContract(t *testing.T) {
	outputDir := runBuild(t)

	index, err := corpus.LoadIndex(outputDir)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}

	wantIDs := []string{"0", "1", "2", "2-1", "3", "番外編-1"}
	if index.TotalEpisodes != len(wantIDs) {
		t.Fatalf("TotalEpisodes = %d, want %d", index.TotalEpisodes, len(wantIDs))
	}
	for i, want := range wantIDs {
		if index.Episodes[i].ID != want {
			t.Errorf("Episodes[%d].ID = %q, want %q", i, index.Episodes[i].ID, want)
		}
	}

	ids := make(map[string]bool)
	for _, e := range index.Episodes {
		ids[e.ID] = true
	}

	for _, e := range index.Episodes {
		if len(e.RelatedEpisodes) > corpus.MaxRelatedEpisodes {
			t.Errorf("Episode %s exceeds related cap", e.ID)
		}
		for _, r := range e.RelatedEpisodes {
			if r.ID == e.ID {
				t.Errorf("Episode %s relates to itself", e.ID)
			}
			if !ids[r.ID] {
				t.Errorf("Related id %q does not resolve in the artifact", r.ID)
			}
			if r.Similarity < 30 || r.Similarity > 100 {
				t.Errorf("Similarity %d out of range", r.Similarity)
			}
		}
		if len([]rune(e.Summary)) > corpus.SummaryMaxLength {
			t.Errorf("Episode %s summary too long", e.ID)
		}
	}
}

func TestBuild_RelatedPairsAreSymmetric(t *testing.T) {
	outputDir := runBuild(t)

	index, err := corpus.LoadIndex(outputDir)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}

	// 2 and 2-1 share the 養成校/教育/実習 vocabulary and must find each
	// other with identical percentages.
	var two, twoSub *domain.Episode
	for i := range index.Episodes {
		switch index.Episodes[i].ID {
		case "2":
			two = &index.Episodes[i]
		case "2-1":
			twoSub = &index.Episodes[i]
		}
	}
	if two == nil || twoSub == nil {
		t.Fatal("Expected episodes 2 and 2-1 in artifact")
	}

	find := func(related []domain.RelatedEpisode, id string) (int, bool) {
		for _, r := range related {
			if r.ID == id {
				return r.Similarity, true
			}
		}
		return 0, false
	}

	forward, okF := find(two.RelatedEpisodes, "2-1")
	backward, okB := find(twoSub.RelatedEpisodes, "2")
	if !okF || !okB {
		t.Fatalf("Expected 2 and 2-1 to be mutually related: %v / %v", two.RelatedEpisodes, twoSub.RelatedEpisodes)
	}
	if forward != backward {
		t.Errorf("Similarity not symmetric: %d vs %d", forward, backward)
	}
}

func TestBuild_ThemesSidecar(t *testing.T) {
	outputDir := runBuild(t)

	themes, err := corpus.LoadThemes(outputDir)
	if err != nil {
		t.Fatalf("LoadThemes failed: %v", err)
	}

	if len(themes.Themes) == 0 {
		t.Fatal("Expected observed themes in sidecar")
	}
	for i := 1; i < len(themes.Themes); i++ {
		if themes.Themes[i-1] >= themes.Themes[i] {
			t.Fatalf("Themes not sorted/distinct: %v", themes.Themes)
		}
	}
}

func TestServe_OverBuiltArtifact(t *testing.T) {
	outputDir := runBuild(t)

	library := server.NewLibrary(outputDir, 20)
	if err := library.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	defer func() { _ = library.Close() }()

	ts := httptest.NewServer(server.NewRouter(library, ""))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/index")
	if err != nil {
		t.Fatalf("GET /api/index failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}

	var index domain.CorpusIndex
	if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
		t.Fatalf("Failed to decode index: %v", err)
	}
	if index.TotalEpisodes != 6 {
		t.Errorf("TotalEpisodes = %d, want 6", index.TotalEpisodes)
	}

	searchResp, err := http.Get(ts.URL + "/api/search?q=%E7%A0%94%E7%A9%B6") // 研究
	if err != nil {
		t.Fatalf("GET /api/search failed: %v", err)
	}
	defer func() { _ = searchResp.Body.Close() }()
	if searchResp.StatusCode != http.StatusOK {
		t.Errorf("Search status = %d, want 200", searchResp.StatusCode)
	}
}
