package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"firerules/internal/analysis"
	"firerules/internal/diag"
	"firerules/internal/observ"
	"firerules/internal/source"
)

// CheckOptions configures Check.
type CheckOptions struct {
	Analysis analysis.Options
	// Include holds base-name glob patterns used when walking directories.
	Include        []string
	Jobs           int
	MaxDiagnostics int
	// Cache may be nil to disable caching.
	Cache    *DiskCache
	Progress ProgressSink
}

// FileResult содержит результат проверки одного файла.
type FileResult struct {
	Path string
	// File is nil when the file could not be loaded.
	File *source.File
	Bag  *diag.Bag
	// Dropped counts diagnostics beyond MaxDiagnostics.
	Dropped int
	Timings observ.Report
	Cached  bool
	// Doc is nil for cached results and load failures.
	Doc *analysis.Document
}

func (r *FileResult) HasErrors() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// CheckResult holds per-file results in path order.
type CheckResult struct {
	Files []FileResult
}

// HasErrors reports whether any file has an error diagnostic.
func (r *CheckResult) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].HasErrors() {
			return true
		}
	}
	return false
}

// Counts returns the number of errors and warnings across all files.
func (r *CheckResult) Counts() (errs, warnings int) {
	for i := range r.Files {
		if r.Files[i].Bag == nil {
			continue
		}
		errs += r.Files[i].Bag.Count(diag.SevError)
		warnings += r.Files[i].Bag.Count(diag.SevWarning)
	}
	return errs, warnings
}

// CacheHits counts results served from the disk cache.
func (r *CheckResult) CacheHits() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Cached {
			n++
		}
	}
	return n
}

// Timings aggregates the phase timings of every analyzed file.
func (r *CheckResult) Timings() observ.Report {
	reports := make([]observ.Report, 0, len(r.Files))
	for i := range r.Files {
		reports = append(reports, r.Files[i].Timings)
	}
	return observ.Aggregate(reports)
}

// Check diagnoses every rules file reachable from paths. Directories are
// walked for names matching opts.Include; explicit files are always checked.
// Malformed rules never fail the run; only listing errors and cancellation do.
func Check(ctx context.Context, paths []string, opts CheckOptions) (*CheckResult, error) {
	files, err := ListFiles(paths, opts.Include)
	if err != nil {
		return nil, err
	}
	result := &CheckResult{Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return result, nil
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			result.Files[i] = checkFile(path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func checkFile(path string, opts CheckOptions) FileResult {
	started := time.Now()
	res := FileResult{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics)}

	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	file, err := source.Load(path)
	if err != nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return res
	}
	res.File = file

	key := CacheKey(file.Content, opts.Analysis)
	if opts.Cache != nil {
		emit(opts.Progress, Event{File: path, Stage: StageCache, Status: StatusWorking})
		var payload DiskPayload
		ok, err := opts.Cache.Get(key, &payload)
		if err == nil && ok {
			res.Dropped = res.Bag.AddAll(payload.Diagnostics)
			res.Bag.Sort()
			res.Bag.Dedup()
			res.Timings = payload.Timings
			res.Cached = true
			emit(opts.Progress, Event{File: path, Stage: StageCache, Status: finalStatus(&res), Elapsed: time.Since(started), Cached: true})
			return res
		}
	}

	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	doc := analysis.Parse(pathToURI(path), 0, file, opts.Analysis)
	emit(opts.Progress, Event{File: path, Stage: StageDiagnose, Status: StatusWorking})

	all := doc.Diagnostics()
	res.Doc = doc
	res.Timings = doc.Timings
	res.Dropped = res.Bag.AddAll(all)
	res.Bag.Sort()
	res.Bag.Dedup()

	var cacheErr error
	if opts.Cache != nil {
		cacheErr = opts.Cache.Put(key, &DiskPayload{
			Path:        path,
			Diagnostics: all,
			Timings:     doc.Timings,
			Broken:      doc.HasErrors(),
		})
		if cacheErr != nil {
			cacheErr = fmt.Errorf("cache %s: %w", path, cacheErr)
		}
	}
	emit(opts.Progress, Event{File: path, Stage: StageDiagnose, Status: finalStatus(&res), Err: cacheErr, Elapsed: time.Since(started)})
	return res
}

func finalStatus(res *FileResult) Status {
	if res.HasErrors() {
		return StatusError
	}
	return StatusDone
}

// IsCanceled reports whether err comes from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
