package lang

import (
	"context"
	"strconv"
	"strings"
	"testing"
)

func TestCompile_SharesParse(t *testing.T) {
	ClearCache()

	src := "def sq(n: int) -> int { n * n }\nprintln(sq(3))"

	a, err := Compile(context.Background(), "a.tj", src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	b, err := Compile(context.Background(), "a.tj", src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if a.File != b.File {
		t.Error("identical sources parsed twice")
	}

	if a.Table == b.Table {
		t.Error("declaration tables must not be shared")
	}

	c, err := Compile(context.Background(), "c.tj", src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if c.File == a.File {
		t.Error("sources with different names share a parse")
	}
}

func TestCompile_WithoutCache(t *testing.T) {
	ClearCache()

	src := "x = 1"

	a, _ := Compile(context.Background(), "x.tj", src, WithCache(false))
	b, _ := Compile(context.Background(), "x.tj", src, WithCache(false))

	if a.File == b.File {
		t.Error("parse was shared with the cache disabled")
	}
}

func TestSourceKey(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [2]string
		wantSame bool
	}{
		{"identical", [2]string{"f", "x = 1"}, [2]string{"f", "x = 1"}, true},
		{"different source", [2]string{"f", "x = 1"}, [2]string{"f", "x = 2"}, false},
		{"name boundary", [2]string{"ab", "c"}, [2]string{"a", "bc"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			same := sourceKey(tt.a[0], tt.a[1]) == sourceKey(tt.b[0], tt.b[1])
			if same != tt.wantSame {
				t.Errorf("same key = %t, want %t", same, tt.wantSame)
			}
		})
	}
}

func BenchmarkCompile(b *testing.B) {
	var src strings.Builder
	for i := range 200 {
		src.WriteString("def f" + strconv.Itoa(i) + "(n: int) -> int { return n + 1 }\n")
	}

	ctx := context.Background()

	b.Run("cached", func(b *testing.B) {
		ClearCache()

		for b.Loop() {
			_, _ = Compile(ctx, "bench.tj", src.String())
		}
	})

	b.Run("uncached", func(b *testing.B) {
		for b.Loop() {
			_, _ = Compile(ctx, "bench.tj", src.String(), WithCache(false))
		}
	})
}
