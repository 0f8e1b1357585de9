package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/driftchain/internal/model"
)

func TestKey_NamespacesDoNotCollide(t *testing.T) {
	a := Key(NamespaceTranslate, "hello")
	b := Key(NamespaceEmbed, "hello")
	if a == b {
		t.Errorf("expected different keys across namespaces, got %s", a)
	}
	if Key(NamespaceTranslate, "google", "en", "ru", "hi") != Key(NamespaceTranslate, "google", "en", "ru", "hi") {
		t.Error("expected key to be deterministic")
	}
	// Joined parts must not be ambiguous
	if Key(NamespaceTranslate, "ab", "c") == Key(NamespaceTranslate, "a", "bc") {
		t.Error("expected part boundaries to affect the key")
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("expected hit with v, got %q (found=%v)", val, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expected entry to expire")
	}
}

func TestMemoryCache_ConcurrentSameKey(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Set("shared", []byte(fmt.Sprintf("v%d", i)), 0)
			_, _ = c.Get("shared")
		}(i)
	}
	wg.Wait()

	if _, found := c.Get("shared"); !found {
		t.Error("expected a value after concurrent writes")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key(NamespaceEmbed, "text")

	if err := c.Set(key, []byte("data"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get(key)
	if !found || string(val) != "data" {
		t.Errorf("expected disk hit, got %q (found=%v)", val, found)
	}

	if err := c.Set(key, []byte("data"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected expired disk entry to miss")
	}

	if err := c.Delete("never-written"); err != nil {
		t.Errorf("expected delete of missing key to succeed, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskCache(dir, time.Hour)
	_ = disk.Set("k", []byte("from-disk"), 0)

	layered := &LayeredCache{
		memory: NewMemoryCache(time.Hour, time.Minute),
		disk:   disk,
	}

	val, found := layered.Get("k")
	if !found || string(val) != "from-disk" {
		t.Fatalf("expected disk value, got %q", val)
	}

	if _, found := layered.memory.Get("k"); !found {
		t.Error("expected disk hit to be promoted to memory")
	}
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	vec := []float32{0.1, 0.2, 0.3}

	if err := SetJSON(c, "vec", vec, 0); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var got []float32
	if !GetJSON(c, "vec", &got) {
		t.Fatal("expected GetJSON hit")
	}
	if len(got) != 3 || got[2] != 0.3 {
		t.Errorf("unexpected vector %v", got)
	}

	_ = c.Set("bad", []byte("{not json"), 0)
	if GetJSON(c, "bad", &got) {
		t.Error("expected corrupt entry to count as a miss")
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(model.CacheConfig{Enabled: false}).(NopCache); !ok {
		t.Error("expected NopCache when disabled")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("expected MemoryCache without a directory")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, Dir: t.TempDir()}).(*LayeredCache); !ok {
		t.Error("expected LayeredCache with a directory")
	}

	nop := NopCache{}
	_ = nop.Set("k", []byte("v"), 0)
	if _, found := nop.Get("k"); found {
		t.Error("NopCache must never hit")
	}
}
