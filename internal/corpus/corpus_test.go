// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/arb-engine/pkg/types"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Will The Fed Cut Rates", "will the fed cut rates"},
		{"strips punctuation", "Bitcoin above $100k?", "bitcoin above 100k"},
		{"collapses whitespace", "rate   cut\t2024", "rate cut 2024"},
		{"trims", "  hello  ", "hello"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.in); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFoldEquivalentFormatting(t *testing.T) {
	a := Fold("Will the Fed cut rates by 25bps in 2024?")
	b := Fold("will the fed CUT rates, by 25bps... in 2024")
	if a != b {
		t.Errorf("equivalent wording folded unequally: %q vs %q", a, b)
	}
}

func TestParseEndTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"rfc3339 z", "2024-11-05T12:00:00Z", true},
		{"rfc3339 offset", "2024-11-05T12:00:00+02:00", true},
		{"naive", "2024-11-05T12:00:00", true},
		{"date only", "2024-11-05", true},
		{"garbage", "next tuesday", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEndTime(tt.in)
			if (got != nil) != tt.ok {
				t.Errorf("ParseEndTime(%q) = %v, want parse ok %v", tt.in, got, tt.ok)
			}
		})
	}

	// Z means UTC.
	got := ParseEndTime("2024-11-05T12:00:00Z")
	want := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("ParseEndTime Z = %v, want %v", got, want)
	}
}

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		notWant []string
	}{
		{"full name maps to surname tag", "Will Donald Trump win?", []string{"trump"}, nil},
		{"bare surname", "Trump approval rating", []string{"trump"}, nil},
		{"multiple tags", "Will the Federal Reserve and the Fed funds rate move before the election?",
			[]string{"federal reserve", "fed", "election"}, nil},
		{"fed cup excluded", "Who wins the Fed Cup?", nil, []string{"fed"}},
		{"fedex excluded", "Will fed ex report earnings?", nil, []string{"fed"}},
		{"eth flipped excluded", "Will eth flipped happen?", nil, []string{"eth"}},
		{"eth clean", "Will ETH reach $5k?", []string{"eth"}, nil},
		{"apple tv excluded", "Apple TV subscriber count", nil, []string{"apple"}},
		{"apple clean", "Apple stock above $200", []string{"apple"}, nil},
		{"meta standalone only", "Meta announces layoffs?", nil, []string{"meta"}},
		{"united states maps to usa", "Will the United States default?", []string{"usa"}, nil},
		{"no partial word", "fedora convention attendance", nil, []string{"fed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEntities(tt.text)
			for _, e := range tt.want {
				if !got.Has(e) {
					t.Errorf("ExtractEntities(%q) missing %q (got %v)", tt.text, e, got.Sorted())
				}
			}
			for _, e := range tt.notWant {
				if got.Has(e) {
					t.Errorf("ExtractEntities(%q) should not contain %q", tt.text, e)
				}
			}
		})
	}
}

func TestExtractNumbersRoundTrip(t *testing.T) {
	got := ExtractNumbers("a $2.5m grant at 25bps over 2024")
	want := []string{"$2.5m", "2024", "25bps"}

	sorted := got.Sorted()
	if len(sorted) != len(want) {
		t.Fatalf("ExtractNumbers = %v, want exactly %v", sorted, want)
	}
	for i, w := range want {
		if sorted[i] != w {
			t.Errorf("token[%d] = %q, want %q", i, sorted[i], w)
		}
	}
}

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		notWant []string
	}{
		{"year", "Will it happen in 2025?", []string{"2025"}, nil},
		{"percent", "inflation above 3.5% this year", []string{"3.5%"}, []string{"3.5"}},
		{"dollar with suffix", "market cap over $5b", []string{"$5b"}, []string{"5"}},
		{"dollar with commas", "a $1,000 prize", []string{"$1,000"}, nil},
		{"basis points singular", "a 25 bp hike", []string{"25bps"}, []string{"25"}},
		{"small numbers excluded", "top 5 of 9 teams", nil, []string{"5", "9"}},
		{"large literal kept", "over 100 launches", []string{"100"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNumbers(tt.text)
			for _, n := range tt.want {
				if !got.Has(n) {
					t.Errorf("ExtractNumbers(%q) missing %q (got %v)", tt.text, n, got.Sorted())
				}
			}
			for _, n := range tt.notWant {
				if got.Has(n) {
					t.Errorf("ExtractNumbers(%q) should not contain %q (got %v)", tt.text, n, got.Sorted())
				}
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.Domain
	}{
		{"politics", "Who wins the presidential election?", types.DomainPolitics},
		{"macro", "Will the FOMC cut interest rates?", types.DomainMacro},
		{"crypto", "Bitcoin above $100k by March", types.DomainCrypto},
		{"finance", "S&P 500 closes above 6000", types.DomainFinance},
		{"tech", "Will OpenAI release GPT-5?", types.DomainTech},
		{"sports", "Chiefs win the Super Bowl", types.DomainSports},
		{"entertainment", "Taylor Swift album of the year", types.DomainEntertainment},
		{"other", "Will it rain in Lisbon tomorrow?", types.DomainOther},
		// Rule order is part of the contract.
		{"politics beats crypto", "Will the election move bitcoin?", types.DomainPolitics},
		{"macro beats crypto", "Will inflation drive bitcoin higher?", types.DomainMacro},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestBuildRecord(t *testing.T) {
	raw := types.RawMarket{
		ID:          "FED-24DEC",
		Title:       "Will the Fed cut rates by 25bps in 2024?",
		Description: "Resolves yes if the Federal Reserve cuts by 25 basis points.",
		EndDate:     "2024-12-18T20:00:00Z",
	}
	rec, ok, err := BuildRecord(raw)
	if err != nil || !ok {
		t.Fatalf("BuildRecord: ok=%v err=%v", ok, err)
	}
	if rec.SourceID != "FED-24DEC" {
		t.Errorf("SourceID = %q", rec.SourceID)
	}
	if !strings.Contains(rec.RawText, "Resolves yes") {
		t.Errorf("RawText missing description: %q", rec.RawText)
	}
	if rec.EndTime == nil {
		t.Error("EndTime = nil, want parsed")
	}
	if rec.Domain != types.DomainMacro {
		t.Errorf("Domain = %q, want macro", rec.Domain)
	}
	if !rec.Entities.Has("fed") || !rec.Entities.Has("federal reserve") {
		t.Errorf("Entities = %v", rec.Entities.Sorted())
	}
	if !rec.Numbers.Has("25bps") || !rec.Numbers.Has("2024") {
		t.Errorf("Numbers = %v", rec.Numbers.Sorted())
	}
}

func TestBuildRecordEmptyTitleDropped(t *testing.T) {
	_, ok, err := BuildRecord(types.RawMarket{ID: "X-1", Title: "   "})
	if err != nil {
		t.Fatalf("empty title should not error, got %v", err)
	}
	if ok {
		t.Error("empty title should be dropped")
	}
}

func TestBuildRecordMissingIDErrors(t *testing.T) {
	_, _, err := BuildRecord(types.RawMarket{Title: "Some question"})
	if err == nil {
		t.Error("missing identifier should be a contract violation")
	}
}

func TestBuildRecordBadEndTimeDegrades(t *testing.T) {
	rec, ok, err := BuildRecord(types.RawMarket{ID: "X-1", Title: "A question", EndDate: "not-a-date"})
	if err != nil || !ok {
		t.Fatalf("BuildRecord: ok=%v err=%v", ok, err)
	}
	if rec.EndTime != nil {
		t.Errorf("EndTime = %v, want nil for unparsable date", rec.EndTime)
	}
}

func TestBuildContinuesPastBadRecords(t *testing.T) {
	raws := []types.RawMarket{
		{ID: "", Title: "missing id"},
		{ID: "A-1", Title: ""},
		{ID: "A-2", Title: "Will bitcoin reach $100k in 2025?"},
	}
	var buf bytes.Buffer
	records := Build(raws, &buf)
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].SourceID != "A-2" {
		t.Errorf("survivor = %q, want A-2", records[0].SourceID)
	}
	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("expected contract-violation warning, got %q", buf.String())
	}
}
