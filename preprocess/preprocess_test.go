package preprocess

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		wantIncludes []string
		wantWarnings int
		wantLines    int
	}{
		{
			name:      "shebang elided",
			src:       "#!/usr/bin/env sdlc\nint = native(rs => \"i64\")\n",
			wantLines: 4,
		},
		{
			name:         "hash include",
			src:          `#include "common.sdl"` + "\n" + `A(x: int)`,
			wantIncludes: []string{"common.sdl"},
			wantLines:    3,
		},
		{
			name:         "malformed hash include warns but continues",
			src:          `#include common.sdl` + "\n" + `A(x: int)`,
			wantWarnings: 1,
			wantLines:    3,
		},
		{
			name:         "unknown hash directive warns",
			src:          "#pragma foo\nA(x: int)",
			wantWarnings: 1,
			wantLines:    3,
		},
		{
			name:         "legacy include dotted path",
			src:          "include common.types\nA(x: int)",
			wantIncludes: []string{"common" + string(filepath.Separator) + "types.asdl"},
			wantLines:    3,
		},
		{
			name:      "trailing line comment stripped",
			src:       `A(x: int) -- a comment`,
			wantLines: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Run("test.sdl", tt.src)

			if len(result.Includes) != len(tt.wantIncludes) {
				t.Fatalf("includes = %v, want %v", result.Includes, tt.wantIncludes)
			}

			for i, inc := range tt.wantIncludes {
				if result.Includes[i] != inc {
					t.Errorf("includes[%d] = %q, want %q", i, result.Includes[i], inc)
				}
			}

			if len(result.Warnings) != tt.wantWarnings {
				t.Fatalf("warnings = %d, want %d: %v", len(result.Warnings), tt.wantWarnings, result.Warnings)
			}

			if got := len(strings.Split(result.OutputSrc, "\n")); got != tt.wantLines {
				t.Errorf("output line count = %d, want %d (output: %q)", got, tt.wantLines, result.OutputSrc)
			}
		})
	}
}

func TestRunStripsCommentKeepsCode(t *testing.T) {
	result := Run("test.sdl", `A(x: int) -- trailing note`)

	if strings.Contains(result.OutputSrc, "trailing note") {
		t.Errorf("comment text leaked into output: %q", result.OutputSrc)
	}

	if !strings.Contains(result.OutputSrc, "A(x: int)") {
		t.Errorf("code was stripped along with comment: %q", result.OutputSrc)
	}
}
