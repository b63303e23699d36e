package processor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"lentiplate/internal/frame"
	"lentiplate/internal/plate"
	"lentiplate/pkg/imgutil"
)

const (
	outputSuffix = "_mod.png"
	centerSuffix = "_center.png"
)

func Run(ctx context.Context, root string, opts Options, updates chan<- ProgressUpdate) (Summary, []ScanReport, error) {
	summary := Summary{}
	var reports []ScanReport

	if opts.Action == ActionProcess {
		if err := opts.Plate.Validate(); err != nil {
			return summary, nil, err
		}
	} else if err := opts.Plate.Settings.Validate(); err != nil {
		return summary, nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return summary, nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return summary, nil, err
	}

	var mire *image.NRGBA
	if opts.Action == ActionProcess {
		mire, _, err = loadTemplate(opts)
		if err != nil {
			return summary, nil, err
		}
	}

	var outputAbs string
	var outputInsideRoot bool
	if opts.Action == ActionProcess && opts.OutputDir != "" {
		if absOut, outErr := filepath.Abs(opts.OutputDir); outErr == nil {
			outputAbs = absOut
			absRootClean := filepath.Clean(absRoot)
			outputClean := filepath.Clean(outputAbs)
			if outputClean != absRootClean && isWithin(outputClean, absRootClean) {
				outputInsideRoot = true
			}
		}
	}

	jobs := make(chan Job)
	results := make(chan Result)

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, jobs, results, opts, mire, updates)
		}()
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			summary.Total++
			if res.Supported {
				summary.Processed++
				notify(ctx, updates, ProgressUpdate{ProcessedDelta: 1})
			}
			if res.Err != nil {
				summary.Errors++
				notify(ctx, updates, ProgressUpdate{ErrorDelta: 1})
			}
			if n := len(res.Warnings); n > 0 {
				summary.Warnings += n
				notify(ctx, updates, ProgressUpdate{WarningDelta: n})
			}
			if res.Output != "" {
				summary.Written++
				notify(ctx, updates, ProgressUpdate{WrittenDelta: 1})
			}
			if res.Supported || res.Err != nil {
				reports = append(reports, ScanReport{
					Path:     res.Display,
					Output:   res.Output,
					Err:      res.Err,
					Details:  res.Details,
					Warnings: res.Warnings,
				})
			}
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)

		sendJob := func(job Job) error {
			if ctx == nil {
				jobs <- job
				return nil
			}
			select {
			case jobs <- job:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if !info.IsDir() {
			job := Job{
				Path:     absRoot,
				RelPath:  filepath.Base(absRoot),
				Display:  filepath.Base(absRoot),
				Explicit: true,
			}
			producerErr <- sendJob(job)
			return
		}

		fsys := os.DirFS(absRoot)
		err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if outputInsideRoot {
					fullDir := filepath.Join(absRoot, path)
					if isWithin(fullDir, outputAbs) {
						return fs.SkipDir
					}
				}
				return nil
			}
			if !d.Type().IsRegular() || isOutputName(d.Name()) {
				return nil
			}

			return sendJob(Job{
				Path:    filepath.Join(absRoot, path),
				RelPath: path,
				Display: path,
			})
		})
		producerErr <- err
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })

	if err := <-producerErr; err != nil {
		return summary, reports, err
	}

	if ctx != nil {
		if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
			return summary, reports, err
		}
	}

	return summary, reports, nil
}

func worker(ctx context.Context, jobs <-chan Job, results chan<- Result, opts Options, mire *image.NRGBA, updates chan<- ProgressUpdate) {
	for job := range jobs {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return
			}
		}

		res := Result{Path: job.Path, RelPath: job.RelPath, Display: job.Display}

		file, err := os.Open(job.Path)
		if err != nil {
			res.Err = err
			results <- res
			continue
		}

		kind, err := imgutil.SniffReader(file)
		if err != nil {
			_ = file.Close()
			res.Err = err
			results <- res
			continue
		}

		if kind == imgutil.KindUnknown {
			_ = file.Close()
			if job.Explicit {
				res.Err = fmt.Errorf("unsupported image type")
			}
			results <- res
			continue
		}

		res.Supported = true
		notify(ctx, updates, ProgressUpdate{TotalDelta: 1})

		rec := &frame.Recorder{}
		var extra []ScanDetail
		switch opts.Action {
		case ActionScan:
			extra, err = scanFile(file, kind, opts, rec)
		case ActionProcess:
			res.Output, extra, err = processFile(file, job, kind, opts, mire, rec)
		default:
			err = fmt.Errorf("unknown action")
		}
		_ = file.Close()

		res.Err = err
		res.Details = append(detailsFromRecorder(rec), extra...)
		res.Warnings = warningsFromRecorder(rec)
		results <- res
	}
}

// notify sends a progress update unless the run has been cancelled, so a
// consumer that stops reading cannot stall the batch.
func notify(ctx context.Context, updates chan<- ProgressUpdate, u ProgressUpdate) {
	if updates == nil {
		return
	}
	if ctx == nil {
		updates <- u
		return
	}
	select {
	case updates <- u:
	case <-ctx.Done():
	}
}

// inputMeta is what the source file says about itself.
type inputMeta struct {
	ICCP   []byte
	XDPI   float64
	YDPI   float64
	HasDPI bool
	Source string
}

func readInputMeta(file *os.File, kind imgutil.Kind) (inputMeta, error) {
	meta := inputMeta{}
	switch kind {
	case imgutil.KindPNG:
		analysis, err := scanPNGMetadata(file)
		if err != nil {
			return meta, err
		}
		meta.ICCP = analysis.ICCP
		meta.XDPI, meta.YDPI, meta.HasDPI = analysis.DPI()
		meta.Source = "png pHYs"
	case imgutil.KindJPEG, imgutil.KindTIFF:
		res, err := analyzeExif(file, kind)
		if err != nil {
			return meta, err
		}
		meta.XDPI, meta.YDPI, meta.HasDPI = res.XDPI, res.YDPI, res.Found
		meta.Source = "exif (" + res.Unit + ")"
		if kind == imgutil.KindJPEG {
			if _, err := file.Seek(0, io.SeekStart); err != nil {
				return meta, err
			}
			profile, err := extractJPEGICC(file)
			if err != nil {
				return meta, err
			}
			if pngCompatibleICC(profile) {
				if meta.ICCP, err = iccpFromProfile(profile); err != nil {
					return meta, err
				}
			}
		}
	}
	return meta, nil
}

// inspect decodes the file and reads its metadata. Unreadable metadata is
// reported but does not stop processing.
func inspect(file *os.File, kind imgutil.Kind, opts Options, rep frame.Reporter) (*image.NRGBA, inputMeta, []ScanDetail, error) {
	var details []ScanDetail
	meta, metaErr := readInputMeta(file, kind)
	if metaErr != nil {
		details = append(details, ScanDetail{Category: "Metadata", Values: []string{"error=" + metaErr.Error()}})
		meta = inputMeta{}
	}
	if meta.HasDPI {
		details = append(details, checkResolution(meta.XDPI, meta.YDPI, meta.Source, opts.Plate.Settings, rep))
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, meta, details, err
	}
	img, _, err := imgutil.Decode(file)
	if err != nil {
		return nil, meta, details, err
	}
	rep.Detail("input", "size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
	rep.Detail("input", "format", kind.String())
	return img, meta, details, nil
}

func scanFile(file *os.File, kind imgutil.Kind, opts Options, rec *frame.Recorder) ([]ScanDetail, error) {
	img, _, details, err := inspect(file, kind, opts, rec)
	if err != nil {
		return details, err
	}
	s := opts.Plate.Settings

	report, err := frame.Scan(img, s, opts.Plate.CadreMM, rec)
	if err != nil {
		return details, err
	}

	plan := plate.PlanCenter(frame.ScanCenterStrip(img, s, frame.CenterStripMM), img.Bounds().Dx())
	rec.Detail("center", "red_runs", plan.Runs)
	if plan.Found {
		rec.Detail("center", "middle_index", plan.Index)
		rec.Detail("center", "mark_x", plan.Mark)
		rec.Detail("center", "pad_left", plan.PadLeft)
		rec.Detail("center", "pad_right", plan.PadRight)
	} else {
		rec.Warn(frame.Warning{Kind: frame.WarnNoRedRuns, Stage: "center", Message: "no red line in the top strip"})
	}

	if len(report.BlackLeft) < 2 || len(report.BlackRight) < 2 {
		rec.Detail("scan", "mode2_ready", false)
	}
	if pitch := pitchDetail(report.RedLines, s); pitch != nil {
		details = append(details, *pitch)
	}
	return details, nil
}

func processFile(file *os.File, job Job, kind imgutil.Kind, opts Options, mire *image.NRGBA, rec *frame.Recorder) (string, []ScanDetail, error) {
	img, meta, details, err := inspect(file, kind, opts, rec)
	if err != nil {
		return "", details, err
	}

	res, err := plate.Process(img, mire, opts.Plate, rec)
	if err != nil {
		return "", details, err
	}

	destPath, destDir, err := resolveDestination(job, opts)
	if err != nil {
		return "", details, err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", details, err
	}

	out := pngMeta{ICCP: meta.ICCP}
	out.PPMX, out.PPMY = opts.Plate.Settings.PixelsPerMeter()

	if opts.Debug && res.Centered != nil {
		debugPath := filepath.Join(destDir, stem(job.Path)+centerSuffix)
		if err := writePNGFile(plate.MarkCenter(res.Centered), debugPath, out); err != nil {
			return "", details, fmt.Errorf("write debug image: %w", err)
		}
		rec.Detail("output", "debug", debugPath)
	}

	if err := writePNGFile(res.Image, destPath, out); err != nil {
		return "", details, err
	}
	rec.Detail("output", "size", fmt.Sprintf("%dx%d", res.Image.Bounds().Dx(), res.Image.Bounds().Dy()))
	return destPath, details, nil
}

// writePNGFile streams the encoder through the chunk rewriter into a temp
// file next to destPath, then renames it into place.
func writePNGFile(img image.Image, destPath string, meta pngMeta) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), "lentiplate-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(png.Encode(pw, img))
	}()
	if err := rewritePNG(pr, tmpFile, meta); err != nil {
		_ = pr.CloseWithError(err)
		_ = tmpFile.Close()
		return err
	}
	_ = pr.Close()

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return replaceFile(tmpFile.Name(), destPath)
}

func resolveDestination(job Job, opts Options) (string, string, error) {
	destDir := filepath.Dir(job.Path)
	if opts.OutputDir != "" {
		destDir = filepath.Join(opts.OutputDir, filepath.Dir(job.RelPath))
	}

	name := stem(job.Path) + outputSuffix
	if opts.OutputName != "" {
		name = opts.OutputName
	}

	destPath := filepath.Join(destDir, name)
	if filepath.Clean(destPath) == filepath.Clean(job.Path) {
		return "", "", fmt.Errorf("output path resolves to input path; use a different --output")
	}
	return destPath, destDir, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isOutputName(name string) bool {
	return strings.HasSuffix(name, outputSuffix) || strings.HasSuffix(name, centerSuffix)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

func isWithin(path string, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if strings.HasPrefix(rel, "..") || strings.HasPrefix(rel, "..\\") || strings.HasPrefix(rel, "../") {
		return false
	}
	return true
}
