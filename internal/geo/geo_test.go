package geo

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
)

func TestLookupNilReader(t *testing.T) {
	r := NewResolver(nil)
	defer r.Close()

	if got := r.Lookup("1.2.3.4"); got != nil {
		t.Errorf("Lookup with nil reader = %v, want nil", got)
	}
}

func TestLookupInvalidIP(t *testing.T) {
	r := NewResolver(nil)
	defer r.Close()

	if got := r.Lookup(""); got != nil {
		t.Errorf("Lookup empty = %v, want nil", got)
	}
	if got := r.Lookup("not-an-ip"); got != nil {
		t.Errorf("Lookup garbage = %v, want nil", got)
	}
}

func TestLoadBadPath(t *testing.T) {
	r := NewResolver(nil)
	defer r.Close()

	if _, err := r.Load("/nonexistent/path.mmdb"); err == nil {
		t.Error("Load bad path: expected error, got nil")
	}
}

func TestLoadBadFile(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "bad.mmdb")
	if err := os.WriteFile(tmp, []byte("not a valid mmdb"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(nil)
	defer r.Close()

	if _, err := r.Load(tmp); err == nil {
		t.Error("Load bad file: expected error, got nil")
	}
}

// generateTestMMDB creates a minimal city-style MMDB file and returns its
// path. It contains:
//   - 8.8.8.8/32: full record (country, city, location)
//   - 1.1.1.1/32: country only
func generateTestMMDB(t *testing.T) string {
	t.Helper()

	tree, err := mmdbwriter.New(mmdbwriter.Options{
		DatabaseType:            "Test-City",
		RecordSize:              24,
		IncludeReservedNetworks: true,
	})
	if err != nil {
		t.Fatalf("mmdbwriter.New: %v", err)
	}

	_, net8, _ := net.ParseCIDR("8.8.8.8/32")
	if err := tree.Insert(net8, mmdbtype.Map{
		"country": mmdbtype.Map{
			"iso_code": mmdbtype.String("US"),
			"names": mmdbtype.Map{
				"en": mmdbtype.String("United States"),
			},
		},
		"city": mmdbtype.Map{
			"names": mmdbtype.Map{
				"en": mmdbtype.String("Mountain View"),
			},
		},
		"location": mmdbtype.Map{
			"latitude":  mmdbtype.Float64(37.386),
			"longitude": mmdbtype.Float64(-122.0838),
		},
	}); err != nil {
		t.Fatalf("Insert 8.8.8.8: %v", err)
	}

	_, net1, _ := net.ParseCIDR("1.1.1.1/32")
	if err := tree.Insert(net1, mmdbtype.Map{
		"country": mmdbtype.Map{
			"iso_code": mmdbtype.String("AU"),
		},
	}); err != nil {
		t.Fatalf("Insert 1.1.1.1: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.mmdb")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer f.Close()

	if _, err := tree.WriteTo(f); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	return path
}

func TestLoadAndLookup(t *testing.T) {
	path := generateTestMMDB(t)

	r := NewResolver(nil)
	defer r.Close()

	info, err := r.Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if info.DatabaseType != "Test-City" {
		t.Errorf("DatabaseType = %q, want Test-City", info.DatabaseType)
	}
	if info.BuildTime.IsZero() {
		t.Error("BuildTime is zero")
	}

	g := r.Lookup("8.8.8.8")
	if g == nil {
		t.Fatal("Lookup(8.8.8.8) = nil")
	}
	if g.Country != "United States" || g.CountryCode != "US" {
		t.Errorf("country = %q/%q", g.Country, g.CountryCode)
	}
	if g.City != "Mountain View" {
		t.Errorf("city = %q", g.City)
	}
	if g.Location == nil || g.Location.Lat != 37.386 {
		t.Errorf("location = %+v", g.Location)
	}
}

func TestLookupPartialAndMiss(t *testing.T) {
	path := generateTestMMDB(t)

	r := NewResolver(nil)
	defer r.Close()

	if _, err := r.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	g := r.Lookup("1.1.1.1")
	if g == nil {
		t.Fatal("Lookup(1.1.1.1) = nil")
	}
	if g.CountryCode != "AU" {
		t.Errorf("country code = %q, want AU", g.CountryCode)
	}
	if g.City != "" || g.Location != nil {
		t.Errorf("unexpected city/location: %q %+v", g.City, g.Location)
	}

	if g := r.Lookup("10.0.0.1"); g != nil {
		t.Errorf("Lookup(10.0.0.1) = %v, want nil", g)
	}
}

// writeCountryMMDB writes a minimal MMDB mapping one /32 to a country
// code, overwriting path in place.
func writeCountryMMDB(t *testing.T, path, cidr, iso string) {
	t.Helper()

	tree, err := mmdbwriter.New(mmdbwriter.Options{
		DatabaseType:            "Test-City",
		RecordSize:              24,
		IncludeReservedNetworks: true,
	})
	if err != nil {
		t.Fatalf("mmdbwriter.New: %v", err)
	}

	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		t.Fatalf("ParseCIDR: %v", err)
	}
	if err := tree.Insert(network, mmdbtype.Map{
		"country": mmdbtype.Map{
			"iso_code": mmdbtype.String(iso),
		},
	}); err != nil {
		t.Fatalf("Insert %s: %v", cidr, err)
	}

	var buf bytes.Buffer
	if _, err := tree.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatchFileReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.mmdb")
	writeCountryMMDB(t, path, "8.8.8.8/32", "US")

	r := NewResolver(nil)
	defer r.Close()

	if _, err := r.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := r.WatchFile(path); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	if g := r.Lookup("9.9.9.9"); g != nil {
		t.Fatalf("Lookup(9.9.9.9) before reload = %+v, want nil", g)
	}

	// Rewrite the database and wait for the watcher to swap it in. The
	// file is rewritten on each attempt in case an event raced a write.
	for attempt := 0; attempt < 5; attempt++ {
		writeCountryMMDB(t, path, "9.9.9.9/32", "CH")

		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			if g := r.Lookup("9.9.9.9"); g != nil {
				if g.CountryCode != "CH" {
					t.Fatalf("country code after reload = %q, want CH", g.CountryCode)
				}
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatal("watcher never reloaded the database")
}

func TestWatchFileBadPath(t *testing.T) {
	r := NewResolver(nil)
	defer r.Close()

	if err := r.WatchFile(filepath.Join(t.TempDir(), "missing.mmdb")); err == nil {
		t.Error("WatchFile on missing path: expected error, got nil")
	}
}

func TestReaderSwap(t *testing.T) {
	path := generateTestMMDB(t)

	r := NewResolver(nil)
	defer r.Close()

	if _, err := r.Load(path); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if _, err := r.Load(path); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if g := r.Lookup("8.8.8.8"); g == nil {
		t.Fatal("Lookup after swap = nil")
	}
}
