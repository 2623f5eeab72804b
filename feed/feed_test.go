package feed

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"courtcast/storage"
)

var testShow = Show{
	Title:       "SJC Oral Arguments",
	Description: "Oral argument recordings from the Massachusetts Supreme Judicial Court",
	Link:        "https://www.mass.gov/orgs/supreme-judicial-court",
	Author:      "Massachusetts Supreme Judicial Court",
	Email:       "sjc@example.com",
	Language:    "en",
	Category:    "Government",
}

func record(id, title string, published time.Time) storage.EpisodeRecord {
	return storage.EpisodeRecord{
		VideoID:     id,
		Title:       title,
		Description: "Argument recording",
		Published:   published,
		AudioURL:    "https://cdn.example.com/episodes/" + id + ".mp3",
		AudioBytes:  2048,
		Duration:    30 * time.Minute,
		ProcessedAt: published.Add(time.Hour),
	}
}

func TestRenderOrdersNewestFirst(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 1, 0)
	t3 := t1.AddDate(0, 2, 0)
	records := []storage.EpisodeRecord{
		record("vid1", "Case One, SJC-13001", t1),
		record("vid3", "Case Three, SJC-13003", t3),
		record("vid2", "Case Two, SJC-13002", t2),
	}

	raw, err := Render(testShow, records, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse rendered feed: %v", err)
	}
	if len(parsed.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(parsed.Items))
	}
	wantOrder := []string{"vid3", "vid2", "vid1"}
	for i, want := range wantOrder {
		if parsed.Items[i].GUID != want {
			t.Errorf("item[%d].GUID = %q, want %q", i, parsed.Items[i].GUID, want)
		}
	}
}

func TestRenderTiesBrokenByIdentity(t *testing.T) {
	same := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	records := []storage.EpisodeRecord{
		{VideoID: "bbb", Title: "B", Description: "b", Published: same, AudioURL: "https://x/b.mp3", AudioBytes: 1},
		{VideoID: "aaa", Title: "A", Description: "a", Published: same, AudioURL: "https://x/a.mp3", AudioBytes: 1},
	}

	raw, err := Render(testShow, records, same)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Items[0].GUID != "aaa" || parsed.Items[1].GUID != "bbb" {
		t.Errorf("tie order = [%s %s], want [aaa bbb]", parsed.Items[0].GUID, parsed.Items[1].GUID)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	records := []storage.EpisodeRecord{
		record("vid1", "Case One, SJC-13001", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		record("vid2", "Case Two, SJC-13002", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
	generated := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := Render(testShow, records, generated)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Render(testShow, records, generated)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Render() output differs across identical invocations")
	}
}

func TestRenderEnclosureAndMetadata(t *testing.T) {
	published := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	records := []storage.EpisodeRecord{
		record("vid1", "Commonwealth v. Delarosa, SJC-13444", published),
	}

	raw, err := Render(testShow, records, published)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Title != testShow.Title {
		t.Errorf("feed title = %q", parsed.Title)
	}

	item := parsed.Items[0]
	if len(item.Enclosures) != 1 {
		t.Fatalf("enclosures = %d, want 1", len(item.Enclosures))
	}
	enc := item.Enclosures[0]
	if enc.URL != "https://cdn.example.com/episodes/vid1.mp3" {
		t.Errorf("enclosure URL = %q", enc.URL)
	}
	if enc.Type != "audio/mpeg" {
		t.Errorf("enclosure type = %q", enc.Type)
	}
	if enc.Length != "2048" {
		t.Errorf("enclosure length = %q", enc.Length)
	}
	if item.ITunesExt == nil || item.ITunesExt.Subtitle != "Docket: SJC-13444" {
		t.Errorf("itunes subtitle missing docket, got %+v", item.ITunesExt)
	}
	if item.PublishedParsed == nil || !item.PublishedParsed.Equal(published) {
		t.Errorf("pubDate = %v, want %v", item.PublishedParsed, published)
	}
}

func TestRenderEmptyCatalog(t *testing.T) {
	raw, err := Render(testShow, nil, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Items) != 0 {
		t.Errorf("items = %d, want 0", len(parsed.Items))
	}
	if !strings.Contains(string(raw), testShow.Description) {
		t.Error("channel description missing from empty feed")
	}
}

func TestParseCaseInfo(t *testing.T) {
	tests := []struct {
		title      string
		wantName   string
		wantDocket string
	}{
		{
			"Commonwealth v. Emilio Delarosa, SJC-13444",
			"Commonwealth v. Emilio Delarosa",
			"SJC-13444",
		},
		{
			"Mass Bar Association Presents Annual State of the Judiciary",
			"Mass Bar Association Presents Annual State of the Judiciary",
			"",
		},
		{
			"Smith v. Jones,SJC-13001",
			"Smith v. Jones",
			"SJC-13001",
		},
	}

	for _, tt := range tests {
		got := ParseCaseInfo(tt.title)
		if got.CaseName != tt.wantName || got.Docket != tt.wantDocket {
			t.Errorf("ParseCaseInfo(%q) = %+v, want {%q %q}", tt.title, got, tt.wantName, tt.wantDocket)
		}
	}
}
