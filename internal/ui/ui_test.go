package ui

import (
	"context"
	"testing"
)

func TestNumbered(t *testing.T) {
	got := numbered([]string{"Frieren [9.1]", "Bad\ttitle\nsplit"})
	want := "0\tFrieren [9.1]\n1\tBad title split\n"
	if got != want {
		t.Errorf("numbered() = %q, want %q", got, want)
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		n       int
		want    int
		wantErr bool
	}{
		{"first", "0\tFrieren\n", 2, 0, false},
		{"second", "1\tKaiju No. 8\n", 2, 1, false},
		{"empty", "\n", 2, -1, true},
		{"not a number", "x\tFrieren\n", 2, -1, true},
		{"out of range", "5\tGhost\n", 2, -1, true},
		{"negative", "-1\tGhost\n", 2, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelection(tt.out, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSelection() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSelection() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSelectNoItems(t *testing.T) {
	if _, err := Select(context.Background(), "Pick", nil); err == nil {
		t.Error("expected error for empty item list")
	}
}
