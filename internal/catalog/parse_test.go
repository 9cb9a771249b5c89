package catalog

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func loadTestDoc(t *testing.T, filename string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile("testdata/" + filename)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", filename, err)
	}
	return docFromString(t, string(data))
}

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func TestParseEpisodeLinks(t *testing.T) {
	doc := loadTestDoc(t, "series_grid.html")
	links := ParseEpisodeLinks(doc)

	want := []int{1, 2, 3, 5}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d: %+v", len(want), len(links), links)
	}
	for i, n := range want {
		if links[i].Number != n {
			t.Errorf("links[%d].Number = %d, want %d", i, links[i].Number, n)
		}
	}
	if links[3].URL != "https://an1me.to/watch/sousou-no-frieren-episode-5/" {
		t.Errorf("links[3].URL = %q", links[3].URL)
	}
}

func TestParseEpisodeLinksEmptyGrid(t *testing.T) {
	doc := loadTestDoc(t, "series_field_only.html")
	if links := ParseEpisodeLinks(doc); len(links) != 0 {
		t.Errorf("expected no links, got %+v", links)
	}
}

func TestParseEpisodeField(t *testing.T) {
	tests := []struct {
		name      string
		fixture   string
		wantCount int
		wantFound bool
	}{
		{"grid page also has field", "series_grid.html", 10, true},
		{"padded value", "series_field_only.html", 24, true},
		{"N/A is absent", "series_no_signal.html", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, found := ParseEpisodeField(loadTestDoc(t, tt.fixture))
			if count != tt.wantCount || found != tt.wantFound {
				t.Errorf("ParseEpisodeField() = (%d, %v), want (%d, %v)", count, found, tt.wantCount, tt.wantFound)
			}
		})
	}
}

func TestParseEpisodeFieldValues(t *testing.T) {
	tests := []struct {
		value     string
		wantCount int
		wantFound bool
	}{
		{"12", 12, true},
		{"12 eps", 12, true},
		{"?", 0, false},
		{"Unknown", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			html := `<dl><div><dt>Episodes</dt><dd>` + tt.value + `</dd></div></dl>`
			count, found := ParseEpisodeField(docFromString(t, html))
			if count != tt.wantCount || found != tt.wantFound {
				t.Errorf("ParseEpisodeField(%q) = (%d, %v), want (%d, %v)", tt.value, count, found, tt.wantCount, tt.wantFound)
			}
		})
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"5", 5, true},
		{" 07 ", 7, true},
		{"13a", 13, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := leadingInt(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("leadingInt(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
