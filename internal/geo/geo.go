// Package geo enriches event endpoints with geographic metadata from a
// MaxMind MMDB database.
package geo

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/oschwald/maxminddb-golang"

	"github.com/mranv/ocsf-opensearch/internal/logging"
	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// Info describes a loaded MMDB database.
type Info struct {
	DatabaseType string
	BuildTime    time.Time
}

// mmdbRecord contains only the fields we decode from the MMDB file,
// matching the GeoLite2-City / GeoIP2-City layout.
type mmdbRecord struct {
	Country struct {
		ISOCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
	Location struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
}

// Resolver maps IP addresses to OCSF geo objects backed by a MaxMind
// MMDB file. Safe for concurrent use; the reader is swapped atomically.
type Resolver struct {
	reader atomic.Pointer[maxminddb.Reader]
	logger *slog.Logger

	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	watchDone chan struct{}
}

// NewResolver creates a Resolver. It starts empty (nil reader); Lookup
// returns nil until a database is loaded via Load. A nil logger discards
// output.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		logger: logging.Default(logger).With("component", "geo"),
	}
}

// Lookup resolves an IP address to geo metadata. Returns nil on miss,
// parse error, or if no database is loaded.
func (r *Resolver) Lookup(value string) *ocsf.Geo {
	rd := r.reader.Load()
	if rd == nil {
		return nil
	}

	ip := net.ParseIP(value)
	if ip == nil {
		return nil
	}

	var rec mmdbRecord
	if err := rd.Lookup(ip, &rec); err != nil {
		return nil
	}

	g := &ocsf.Geo{
		Country:     rec.Country.Names["en"],
		CountryCode: rec.Country.ISOCode,
		City:        rec.City.Names["en"],
	}
	if rec.Location.Latitude != 0 || rec.Location.Longitude != 0 {
		g.Location = &ocsf.Location{
			Lat: rec.Location.Latitude,
			Lon: rec.Location.Longitude,
		}
	}

	if g.Country == "" && g.CountryCode == "" && g.City == "" && g.Location == nil {
		return nil
	}
	return g
}

// Load opens an MMDB file and swaps the atomic reader pointer. The old
// reader is closed after the swap.
func (r *Resolver) Load(path string) (Info, error) {
	rd, err := maxminddb.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open mmdb %q: %w", path, err)
	}
	info := Info{
		DatabaseType: rd.Metadata.DatabaseType,
		BuildTime:    time.Unix(int64(rd.Metadata.BuildEpoch), 0), //nolint:gosec // BuildEpoch is a uint, safe for unix timestamps
	}
	old := r.reader.Swap(rd)
	if old != nil {
		_ = old.Close()
	}
	return info, nil
}

// WatchFile watches an MMDB file for changes using fsnotify and reloads
// the database on write/create events. Calling WatchFile again replaces
// the previous watch.
func (r *Resolver) WatchFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopWatchLocked()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %q: %w", path, err)
	}

	r.watcher = w
	r.watchDone = make(chan struct{})

	go r.watchLoop(w, path, r.watchDone)
	return nil
}

func (r *Resolver) watchLoop(w *fsnotify.Watcher, path string, done chan struct{}) {
	defer close(done)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				info, err := r.Load(path)
				if err != nil {
					r.logger.Warn("database reload failed", "path", path, "error", err)
					continue
				}
				r.logger.Info("database reloaded",
					"path", path,
					"type", info.DatabaseType,
					"built", info.BuildTime)
			}
		case werr, ok := <-w.Errors:
			if !ok {
				return
			}
			r.logger.Warn("watch error", "error", werr)
		}
	}
}

func (r *Resolver) stopWatchLocked() {
	if r.watcher != nil {
		_ = r.watcher.Close()
		<-r.watchDone
		r.watcher = nil
		r.watchDone = nil
	}
}

// Close stops the file watcher and closes the current MMDB reader.
func (r *Resolver) Close() {
	r.mu.Lock()
	r.stopWatchLocked()
	r.mu.Unlock()

	if rd := r.reader.Swap(nil); rd != nil {
		_ = rd.Close()
	}
}
