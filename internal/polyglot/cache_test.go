package polyglot

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFingerprintStability(t *testing.T) {
	a := Fingerprint("cpp", "int x = 1;", []string{"b", "a"})
	b := Fingerprint("cpp", "int x = 1;", []string{"a", "b"})
	if a != b {
		t.Fatal("dependency order must not affect the fingerprint")
	}
	if Fingerprint("rust", "int x = 1;", nil) == Fingerprint("cpp", "int x = 1;", nil) {
		t.Fatal("language must be part of the fingerprint")
	}
	if Fingerprint("cpp", "int x = 2;", nil) == Fingerprint("cpp", "int x = 1;", nil) {
		t.Fatal("source must be part of the fingerprint")
	}
	if len(a) != 64 {
		t.Fatalf("fingerprint length = %d, want 64 hex chars", len(a))
	}
}

func TestCachePutGet(t *testing.T) {
	c := NewCache()
	fp := Fingerprint("cpp", "code", nil)

	if _, ok := c.Get(fp); ok {
		t.Fatal("empty cache should miss")
	}
	c.Put(fp, "/tmp/bin1", time.Now())
	if h, ok := c.Get(fp); !ok || h != "/tmp/bin1" {
		t.Fatalf("got %q/%v", h, ok)
	}

	// First writer wins (equivalent artifacts, spec invariant 8).
	c.Put(fp, "/tmp/bin2", time.Now())
	if h, _ := c.Get(fp); h != "/tmp/bin1" {
		t.Fatalf("entry replaced: %q", h)
	}

	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Fatalf("stats = %d hits / %d misses", hits, misses)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := NewDiskCache(dir)

	artifact := filepath.Join(t.TempDir(), "bin")
	if err := os.WriteFile(artifact, []byte("fake binary"), 0o755); err != nil {
		t.Fatal(err)
	}

	source := "fn main() {}"
	fp := Fingerprint("rust", source, nil)
	if err := d.Put(fp, artifact, source); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := d.Get(fp, "rust", source, nil)
	if !ok {
		t.Fatal("expected disk hit")
	}
	data, err := os.ReadFile(got)
	if err != nil || string(data) != "fake binary" {
		t.Fatalf("artifact content = %q, %v", data, err)
	}
}

func TestDiskCacheRejectsCorruption(t *testing.T) {
	dir := t.TempDir()
	d := NewDiskCache(dir)

	artifact := filepath.Join(t.TempDir(), "bin")
	os.WriteFile(artifact, []byte("bin"), 0o755)
	source := "puts 1"
	fp := Fingerprint("ruby", source, nil)
	if err := d.Put(fp, artifact, source); err != nil {
		t.Fatal(err)
	}

	// Tamper with the stored source; validation must refuse and fall back.
	os.WriteFile(filepath.Join(dir, fp+".src"), []byte("puts 2"), 0o644)
	if _, ok := d.Get(fp, "ruby", source, nil); ok {
		t.Fatal("corrupted entry must not be served")
	}
	// The corrupt entry is dropped so a recompile can repopulate the slot.
	if _, err := os.Stat(filepath.Join(dir, fp+".bin")); !os.IsNotExist(err) {
		t.Fatal("corrupt artifact should be removed")
	}
}
