package personality

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildPrompt_ContainsConfiguredBlocks(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt(Config{
		Archetype:   ArchetypeDiehard,
		ChatContext: ContextGroup,
		BanterLevel: 3,
	})

	for _, want := range []string{
		"You are Scout",
		"**Archetype**: Diehard Fan",
		"**Chat Context**: Group Chat",
		"**Banter Level**: Unfiltered (3/3)",
		"## Behavioral Guidelines:",
		"- **Tone**: passionate, detailed, emotional, nostalgic",
		"- **Energy**: social, dynamic, inclusive",
		"- **Restrictions**: Keep it about football, maintain underlying respect",
		"## Key Personality Traits:",
		"under 300 words",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_UnknownValuesFallBackToDefaults(t *testing.T) {
	t.Parallel()

	fallback := BuildPrompt(Config{Archetype: "wizard", ChatContext: "stadium", BanterLevel: -4})
	explicit := BuildPrompt(Config{Archetype: ArchetypeCasual, ChatContext: ContextOneOnOne, BanterLevel: 0})
	if fallback == explicit {
		t.Fatal("negative banter clamps to 0 but archetype/context should default, prompts matched unexpectedly")
	}
	if !strings.Contains(fallback, "**Archetype**: Casual Fan") {
		t.Error("unknown archetype should fall back to casual")
	}
	if !strings.Contains(fallback, "**Chat Context**: One-on-One") {
		t.Error("unknown chat context should fall back to 1on1")
	}
	if !strings.Contains(fallback, "**Banter Level**: Professional (0/3)") {
		t.Error("banter level below range should clamp to 0")
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	t.Parallel()

	cfg := Config{Archetype: ArchetypeRegional, ChatContext: ContextOneOnOne, BanterLevel: 1}
	if BuildPrompt(cfg) != BuildPrompt(cfg) {
		t.Fatal("BuildPrompt is not deterministic")
	}
}

func TestParsePrompt_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, arch := range []Archetype{ArchetypeDiehard, ArchetypeCasual, ArchetypeRegional} {
		for _, chat := range []ChatContext{ContextOneOnOne, ContextGroup} {
			for level := MinBanterLevel; level <= MaxBanterLevel; level++ {
				cfg := Config{Archetype: arch, ChatContext: chat, BanterLevel: level}
				got, err := ParsePrompt(BuildPrompt(cfg))
				if err != nil {
					t.Fatalf("%+v: %v", cfg, err)
				}
				if got != cfg {
					t.Errorf("round trip: got %+v, want %+v", got, cfg)
				}
			}
		}
	}
}

func TestParsePrompt_RejectsForeignText(t *testing.T) {
	t.Parallel()

	if _, err := ParsePrompt("just some chat log"); err == nil {
		t.Fatal("expected an error for text without labels")
	}
}

func TestMemoryStore_Defaults(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	if got := s.Archetype("u1"); got != DefaultArchetype {
		t.Errorf("default archetype = %q", got)
	}
	if got := s.BanterLevel("u1"); got != DefaultBanterLevel {
		t.Errorf("default banter level = %d", got)
	}
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	if err := s.SetArchetype("u1", ArchetypeDiehard); err != nil {
		t.Fatal(err)
	}
	if err := s.SetArchetype("u1", ArchetypeRegional); err != nil {
		t.Fatal(err)
	}
	if got := s.Archetype("u1"); got != ArchetypeRegional {
		t.Errorf("archetype = %q, want regional", got)
	}

	// Preferences are per user.
	if got := s.Archetype("u2"); got != DefaultArchetype {
		t.Errorf("u2 archetype = %q, want default", got)
	}
}

func TestMemoryStore_RejectsUnknownArchetype(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	err := s.SetArchetype("u1", "mascot")
	if err == nil {
		t.Fatal("expected an error")
	}
	var invalid *InvalidArchetypeError
	if !errors.As(err, &invalid) {
		t.Fatalf("error type = %T", err)
	}
	if s.Archetype("u1") != DefaultArchetype {
		t.Error("failed write must not change the stored preference")
	}
}

func TestMemoryStore_ClampsBanterLevel(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	if err := s.SetBanterLevel("u1", 9); err != nil {
		t.Fatal(err)
	}
	if got := s.BanterLevel("u1"); got != MaxBanterLevel {
		t.Errorf("banter level = %d, want %d", got, MaxBanterLevel)
	}
	if err := s.SetBanterLevel("u1", -2); err != nil {
		t.Fatal(err)
	}
	if got := s.BanterLevel("u1"); got != MinBanterLevel {
		t.Errorf("banter level = %d, want %d", got, MinBanterLevel)
	}

	// An explicit 0 is a stored preference, not "unset".
	if err := s.SetBanterLevel("u2", 0); err != nil {
		t.Fatal(err)
	}
	if got := s.BanterLevel("u2"); got != 0 {
		t.Errorf("banter level = %d, want 0", got)
	}
}

func TestFilterResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level BanterLevel
		in    string
		want  string
	}{
		{
			name:  "professional neutralizes words and emoji",
			level: 0,
			in:    "Their defense is trash and it sucks! 🔥💯",
			want:  "Their defense is challenging and it challenging. 👍✅",
		},
		{
			name:  "friendly softens violence metaphors",
			level: 1,
			in:    "Georgia destroyed them 🔥🔥🔥",
			want:  "Georgia defeated them 🔥",
		},
		{
			name:  "friendly keeps single fire",
			level: 1,
			in:    "What a finish! 🔥",
			want:  "What a finish! 🔥",
		},
		{
			name:  "spirited passes through",
			level: 2,
			in:    "That was awful! 🔥🔥",
			want:  "That was awful! 🔥🔥",
		},
		{
			name:  "unfiltered passes through",
			level: 3,
			in:    "Absolute trash take!!! 💯",
			want:  "Absolute trash take!!! 💯",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FilterResponse(tc.in, tc.level); got != tc.want {
				t.Errorf("FilterResponse(%q, %d) = %q, want %q", tc.in, tc.level, got, tc.want)
			}
		})
	}
}

func TestAlignWithOpinions(t *testing.T) {
	t.Parallel()

	t.Run("appends missing take", func(t *testing.T) {
		t.Parallel()
		got := AlignWithOpinions("The playoff race is wide open.", "playoff predictions?")
		want := "The playoff race is wide open.\n\nFor what it's worth, I think should expand to 12 teams."
		if got != want {
			t.Errorf("got %q", got)
		}
	})

	t.Run("skips when take already present", func(t *testing.T) {
		t.Parallel()
		resp := "It should expand to 12 teams, no question."
		if got := AlignWithOpinions(resp, "playoff"); got != resp {
			t.Errorf("response changed: %q", got)
		}
	})

	t.Run("no opinion for unrelated topic", func(t *testing.T) {
		t.Parallel()
		resp := "Kickoff is at noon."
		if got := AlignWithOpinions(resp, "kickoff time"); got != resp {
			t.Errorf("response changed: %q", got)
		}
	})

	t.Run("recruiting maps to the NIL take", func(t *testing.T) {
		t.Parallel()
		got := AlignWithOpinions("Recruiting never stops.", "recruiting class rankings")
		if !strings.HasSuffix(got, "For what it's worth, I think nil has changed everything.") {
			t.Errorf("got %q", got)
		}
	})
}
