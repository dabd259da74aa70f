package rideformat

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"ridefile/internal/logging"
	"ridefile/internal/observability"
	"ridefile/internal/ride"
)

// Reader decodes one device format into a Recording. Malformed input must be
// reported through the returned error list rather than a panic; a nil
// recording with an empty list is treated as a reader bug.
type Reader interface {
	ReadRide(r io.Reader) (*ride.Recording, []string)
}

// ReaderFunc adapts a plain function to the Reader interface.
type ReaderFunc func(r io.Reader) (*ride.Recording, []string)

// ReadRide calls f(r).
func (f ReaderFunc) ReadRide(r io.Reader) (*ride.Recording, []string) { return f(r) }

// Format describes one registered reader.
type Format struct {
	Suffix      string
	Description string
}

type entry struct {
	reader      Reader
	description string
}

// RegisterOption customizes a registration.
type RegisterOption func(*entry)

// WithDescription attaches a human-readable label shown by format listings.
func WithDescription(desc string) RegisterOption {
	return func(e *entry) {
		e.description = strings.TrimSpace(desc)
	}
}

// Registry maps file suffixes to readers. Register every format during
// startup; once lookups begin the registry is effectively read-only.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]entry
	logger  *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		readers: make(map[string]entry),
		logger:  logging.NewComponentLogger(logger, "rideformat"),
	}
}

// Register adds reader under suffix. A suffix may be registered only once.
func (r *Registry) Register(suffix string, reader Reader, opts ...RegisterOption) error {
	if err := validateSuffix(suffix); err != nil {
		return err
	}
	if reader == nil {
		return fmt.Errorf("%w: nil reader for suffix %q", ErrInvalidRegistration, suffix)
	}
	e := entry{reader: reader}
	for _, opt := range opts {
		opt(&e)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.readers[suffix]; exists {
		return fmt.Errorf("%w: suffix %q", ErrDuplicateFormat, suffix)
	}
	r.readers[suffix] = e
	r.logger.Debug("ride format registered", logging.String("suffix", suffix))
	return nil
}

// MustRegister is Register for startup wiring; a conflict is a programming
// error and panics.
func (r *Registry) MustRegister(suffix string, reader Reader, opts ...RegisterOption) {
	if err := r.Register(suffix, reader, opts...); err != nil {
		panic(err)
	}
}

// Lookup returns the reader registered for suffix.
func (r *Registry) Lookup(suffix string) (Reader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.readers[suffix]
	return e.reader, ok
}

// Suffixes returns every registered suffix in lexicographic order.
func (r *Registry) Suffixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.readers))
	for suffix := range r.readers {
		out = append(out, suffix)
	}
	sort.Strings(out)
	return out
}

// Formats returns the registered formats ordered by suffix.
func (r *Registry) Formats() []Format {
	suffixes := r.Suffixes()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(suffixes))
	for _, suffix := range suffixes {
		out = append(out, Format{Suffix: suffix, Description: r.readers[suffix].description})
	}
	return out
}

// Open resolves the reader for path by suffix and decodes the file. The file
// handle is held only for the duration of the call.
func (r *Registry) Open(ctx context.Context, path string) (*ride.Recording, error) {
	suffix, ok := Suffix(path)
	if !ok {
		return nil, r.fail(fmt.Errorf("%w: %s", ErrInvalidPath, path))
	}
	reader, ok := r.Lookup(suffix)
	if !ok {
		return nil, r.fail(&UnknownFormatError{Path: path, Suffix: suffix})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, r.fail(&IOError{Op: "open", Path: path, Err: err})
	}
	defer file.Close()

	return r.decode(path, suffix, reader, file)
}

// OpenReader decodes src with the reader registered for name's suffix. It
// serves callers that already hold the bytes, such as stdin or an upload.
func (r *Registry) OpenReader(ctx context.Context, name string, src io.Reader) (*ride.Recording, error) {
	suffix, ok := Suffix(name)
	if !ok {
		return nil, r.fail(fmt.Errorf("%w: %s", ErrInvalidPath, name))
	}
	reader, ok := r.Lookup(suffix)
	if !ok {
		return nil, r.fail(&UnknownFormatError{Path: name, Suffix: suffix})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.decode(name, suffix, reader, src)
}

func (r *Registry) decode(path, suffix string, reader Reader, src io.Reader) (*ride.Recording, error) {
	rec, errs := reader.ReadRide(src)
	if len(errs) > 0 {
		return nil, r.fail(&ReadError{Path: path, Suffix: suffix, Errors: errs})
	}
	if rec == nil {
		return nil, r.fail(&ReadError{Path: path, Suffix: suffix, Errors: []string{"reader returned no ride and no errors"}})
	}
	observability.RecordOpened(suffix)
	r.logger.Debug("ride file opened",
		logging.String("path", path),
		logging.String("suffix", suffix),
		logging.Int("samples", rec.Len()),
	)
	return rec, nil
}

func (r *Registry) fail(err error) error {
	observability.RecordOpenFailure(Kind(err))
	return err
}

// ListMatching returns the names of regular files in dir whose suffix matches
// any registered format, sorted lexicographically.
func (r *Registry) ListMatching(dir string) ([]string, error) {
	suffixes := r.Suffixes()
	patterns := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		patterns = append(patterns, "*."+suffix)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Op: "list", Path: dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if !isRegularFile(dir, e) {
			continue
		}
		if matchesAny(e.Name(), patterns) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Suffix returns the text after the last '.' in the base name of path.
func Suffix(path string) (string, bool) {
	base := filepath.Base(path)
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 || dot == len(base)-1 {
		return "", false
	}
	return base[dot+1:], true
}

func validateSuffix(suffix string) error {
	if strings.TrimSpace(suffix) == "" {
		return fmt.Errorf("%w: empty suffix", ErrInvalidRegistration)
	}
	if strings.ContainsAny(suffix, "./\\*?[] \t") {
		return fmt.Errorf("%w: suffix %q contains reserved characters", ErrInvalidRegistration, suffix)
	}
	return nil
}

func isRegularFile(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
