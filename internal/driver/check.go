// Package driver orchestrates round-trip checks over files and
// directories: scan, rewrite verbatim, and verify the output matches the
// input byte for byte.
package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"annot/internal/diag"
	"annot/internal/rewrite"
	"annot/internal/source"
	"annot/internal/syntax"
)

// FileResult holds the outcome of checking one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Clean  bool // rewrite output matched the input exactly
	Cached bool // result was replayed from the disk cache
	Bag    *diag.Bag
}

// Options configures a directory run.
type Options struct {
	// Jobs caps worker parallelism; <=0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics bounds each per-file bag.
	MaxDiagnostics int
	// Suffixes selects which files a directory walk picks up.
	Suffixes []string
	// Cache, when non-nil, lets unchanged files skip the check.
	Cache *DiskCache
	// Events receives one event per completed file. May be nil.
	Events chan<- Event
}

// ListFiles returns the sorted list of files under dir matching any of
// the suffixes.
func ListFiles(dir string, suffixes []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(path, suffix) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckFile scans the file, rewrites it with no processor, and compares
// the output against the original content. Scan diagnostics land in the
// result bag; a mismatch adds a RewriteRoundTripMismatch error pointing
// at the first divergent byte.
func CheckFile(fileSet *source.FileSet, id source.FileID, maxDiagnostics int) FileResult {
	file := fileSet.Get(id)
	bag := diag.NewBag(maxDiagnostics)
	res := FileResult{Path: file.Path, FileID: id, Bag: bag}

	tree := syntax.Scan(file, syntax.Options{Reporter: diag.BagReporter{Bag: bag}})

	r := rewrite.New(file, nil, maxDiagnostics)
	if err := r.Visit(tree); err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.RewriteNodeError,
			Message:  "rewrite failed: " + err.Error(),
			Primary:  source.MakeSpan(id, 0, 0),
		})
		return res
	}
	out, err := r.Output()
	if err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.RewriteNodeError,
			Message:  "rewrite failed: " + err.Error(),
			Primary:  source.MakeSpan(id, 0, 0),
		})
		return res
	}
	bag.Merge(r.Bag())

	if out.Text == string(file.Content) {
		res.Clean = true
		return res
	}
	at := firstMismatch(out.Text, file.Content)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.RewriteRoundTripMismatch,
		Message:  "rewritten output diverges from the source",
		Primary:  source.MakeSpan(id, at, at+1),
	})
	return res
}

func firstMismatch(out string, in []byte) uint32 {
	n := len(out)
	if len(in) < n {
		n = len(in)
	}
	for i := 0; i < n; i++ {
		if out[i] != in[i] {
			return uint32(i)
		}
	}
	return uint32(n)
}

// CheckDir runs CheckFile over every matching file under dir in
// parallel. Files that fail to load get an IOLoadFileError diagnostic
// instead of aborting the whole run.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	suffixes := opts.Suffixes
	if len(suffixes) == 0 {
		suffixes = []string{".ts"}
	}
	files, err := ListFiles(dir, suffixes)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}

	// Slots are indexed per file, so workers never contend on results.
	results := make([]FileResult, len(files))

	var eventMu sync.Mutex
	done := 0
	emit := func(path string, status Status) {
		if opts.Events == nil {
			return
		}
		eventMu.Lock()
		done++
		ev := Event{Path: path, Status: status, Index: done, Total: len(files)}
		eventMu.Unlock()
		select {
		case opts.Events <- ev:
		case <-ctx.Done():
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, hadError := loadErrors[path]; hadError {
				bag := diag.NewBag(maxDiagnostics)
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
					Primary:  source.Span{},
				})
				results[i] = FileResult{Path: path, Bag: bag}
				emit(path, StatusFailed)
				return nil
			}

			id := fileIDs[path]
			file := fileSet.Get(id)

			if opts.Cache != nil {
				var payload DiskPayload
				if ok, err := opts.Cache.Get(file.Hash, &payload); err == nil && ok && payload.Schema == diskCacheSchemaVersion {
					results[i] = replayCached(path, id, &payload, maxDiagnostics)
					emit(path, StatusCached)
					return nil
				}
			}

			res := CheckFile(fileSet, id, maxDiagnostics)
			results[i] = res
			if opts.Cache != nil {
				// Best effort: a write failure never fails the check.
				_ = opts.Cache.Put(file.Hash, payloadFor(res))
			}
			switch {
			case res.Bag.HasErrors():
				emit(path, StatusFailed)
			case !res.Clean:
				emit(path, StatusDirty)
			default:
				emit(path, StatusOK)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// MergeBags collects all per-file diagnostics into one sorted bag.
func MergeBags(results []FileResult) *diag.Bag {
	total := 0
	for _, r := range results {
		if r.Bag != nil {
			total += r.Bag.Len()
		}
	}
	merged := diag.NewBag(total)
	for _, r := range results {
		if r.Bag != nil {
			merged.Merge(r.Bag)
		}
	}
	merged.Sort()
	return merged
}
