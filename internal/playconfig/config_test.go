package playconfig

import "testing"

func TestParseFlagsRequiresFileArgument(t *testing.T) {
	if _, err := ParseFlags("ansi-play", nil); err == nil {
		t.Fatal("expected an error when no FILE argument is given")
	}
}

func TestParseFlagsDefaultsToAutoSelect(t *testing.T) {
	cfg, err := ParseFlags("ansi-play", []string{"movie.a3"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.File != "movie.a3" {
		t.Errorf("File = %q, want movie.a3", cfg.File)
	}
	if cfg.HasSubtitleIndex {
		t.Error("expected HasSubtitleIndex to be false by default")
	}
}

func TestParseFlagsSubtitleIndexOverride(t *testing.T) {
	cfg, err := ParseFlags("ansi-play", []string{"--subtitle-index", "3", "movie.a3"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if !cfg.HasSubtitleIndex {
		t.Fatal("expected HasSubtitleIndex to be true")
	}
	if cfg.SubtitleIndex != 3 {
		t.Errorf("SubtitleIndex = %d, want 3", cfg.SubtitleIndex)
	}
}

func TestParseFlagsRejectsTooManyPositionalArgs(t *testing.T) {
	if _, err := ParseFlags("ansi-play", []string{"a.a3", "b.a3"}); err == nil {
		t.Fatal("expected an error for more than one positional argument")
	}
}
