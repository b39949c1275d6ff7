package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/msalah0e/scentnet/internal/network"
)

// ErrNotCached is returned by Load when no bundle exists for the member.
var ErrNotCached = errors.New("no cached network")

// Anonymous names the bundle of a session without a member.
const Anonymous = "anonymous"

// anonymousFile is the file stem of the anonymous bundle. Escaped member
// ids never produce it, so a member named "anonymous" gets its own file.
const anonymousFile = "_" + Anonymous

// Bundle is everything one load fetched from the providers.
type Bundle struct {
	MemberID  string                       `json:"memberId,omitempty"`
	Payload   *network.Payload             `json:"payload"`
	Facets    network.Facets               `json:"facets"`
	Labels    map[string]map[string]string `json:"labels,omitempty"`
	FetchedAt time.Time                    `json:"fetchedAt"`
}

// Entry describes a cached bundle on disk.
type Entry struct {
	Name string
	// MemberID is the member the bundle belongs to, empty for anonymous.
	MemberID string
	Path    string
	Size    int64
	ModTime time.Time
}

// Dir returns the cache directory path.
func Dir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "scentnet")
}

// Path returns the bundle file of a member. Distinct member ids always map
// to distinct files.
func Path(memberID string) string {
	return filepath.Join(Dir(), fileName(memberID)+".json")
}

// Save writes the bundle, replacing any previous one for the same member.
func Save(b *Bundle) error {
	if b == nil || b.Payload == nil {
		return fmt.Errorf("cache: nothing to save")
	}
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return err
	}
	if b.FetchedAt.IsZero() {
		b.FetchedAt = time.Now().UTC()
	}

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}

	path := Path(b.MemberID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads the bundle of a member.
func Load(memberID string) (*Bundle, error) {
	data, err := os.ReadFile(Path(memberID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("cache: decode %s: %w", Path(memberID), err)
	}
	if b.Payload == nil {
		return nil, ErrNotCached
	}
	return &b, nil
}

// List returns the cached bundles, newest first.
func List() ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(Dir(), "*.json"))
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(m), ".json")
		member, ok := memberOf(name)
		if !ok {
			continue
		}
		out = append(out, Entry{
			Name:     name,
			MemberID: member,
			Path:     m,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
	return out, nil
}

// Clear removes every cached bundle and reports how many were removed.
func Clear() (int, error) {
	entries, err := List()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if err := os.Remove(e.Path); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// fileName escapes a member id into a portable file stem. Letters, digits
// and '-' are kept; every other byte becomes '_' and two hex digits.
func fileName(memberID string) string {
	if memberID == "" {
		return anonymousFile
	}
	var b strings.Builder
	for i := 0; i < len(memberID); i++ {
		c := memberID[i]
		if c == '-' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "_%02x", c)
	}
	return b.String()
}

// memberOf reverses fileName. It reports false for stems fileName never
// produces.
func memberOf(name string) (string, bool) {
	if name == anonymousFile {
		return "", true
	}
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		if name[i] != '_' {
			b.WriteByte(name[i])
			continue
		}
		if i+2 >= len(name) {
			return "", false
		}
		v, err := strconv.ParseUint(name[i+1:i+3], 16, 8)
		if err != nil {
			return "", false
		}
		b.WriteByte(byte(v))
		i += 2
	}
	if fileName(b.String()) != name {
		return "", false
	}
	return b.String(), true
}
