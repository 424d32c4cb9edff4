package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chordworks/chartgen"
	"github.com/chordworks/chartgen/internal/pipeline"
	"github.com/chordworks/chartgen/internal/render"
	"github.com/chordworks/chartgen/internal/store"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const (
	maxFiles      = 100
	maxDepth      = 5
	maxWorkers    = 4
	fileExtension = ".chart.md"
)

type ExtractResult struct {
	Path     string
	OutDir   string
	Blocks   int
	Duration time.Duration
}

type processResult struct {
	Path   string
	OutDir string
	Blocks int
	Error  error
}

// Processor runs the extraction pipeline over a file or a directory of
// .chart.md files, one output directory per source file.
type Processor struct {
	opts pipeline.Options
}

func NewProcessor(opts pipeline.Options) *Processor {
	return &Processor{opts: opts}
}

func (p *Processor) ProcessPath(path string) ([]ExtractResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return p.processDirectory(path)
	}

	result := p.processFile(path)
	if result.Error != nil {
		return nil, result.Error
	}

	return []ExtractResult{{
		Path:   result.Path,
		OutDir: result.OutDir,
		Blocks: result.Blocks,
	}}, nil
}

// findFiles walks the directory tree starting at root and returns a list of
// parsable files
//
// If a .git directory is found, it will be used to load .gitignore patterns.
func (p *Processor) findFiles(root string) ([]string, error) {
	var files []string
	var patterns []gitignore.Pattern

	// If .git exists, set up gitignore patterns
	if _, err := os.Stat(filepath.Join(root, ".git")); err == nil {
		patterns = append(patterns, gitignore.ParsePattern(".git/", nil))

		if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
			for _, pat := range strings.Split(string(data), "\n") {
				if pat = strings.TrimSpace(pat); pat != "" && !strings.HasPrefix(pat, "#") {
					patterns = append(patterns, gitignore.ParsePattern(pat, nil))
				}
			}
		}
	}

	matcher := gitignore.NewMatcher(patterns)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		pathComponents := strings.Split(relPath, string(os.PathSeparator))

		if info.IsDir() && len(pathComponents) > maxDepth {
			return filepath.SkipDir
		}

		if len(patterns) > 0 {
			if matcher.Match(pathComponents, info.IsDir()) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if !info.IsDir() && strings.HasSuffix(path, fileExtension) {
			if len(files) >= maxFiles {
				return fmt.Errorf("max files limit reached (%d)", maxFiles)
			}
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found", fileExtension)
	}

	return files, nil
}

func (p *Processor) processDirectory(root string) ([]ExtractResult, error) {
	startTime := time.Now()
	slog.Debug("starting directory processing", "path", root)

	files, err := p.findFiles(root)
	if err != nil {
		return nil, err
	}

	slog.Debug("found files to process", "count", len(files), "duration", time.Since(startTime))

	jobs := make(chan string, len(files))
	results := make(chan processResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- p.processFile(path)
			}
		}()
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var errors []error
	var extractResults []ExtractResult

	for result := range results {
		if result.Error != nil {
			errors = append(errors, fmt.Errorf("failed to process %s: %w", result.Path, result.Error))
			slog.Debug("failed to process file", "path", result.Path, "error", result.Error)
			continue
		}

		absRoot, _ := filepath.Abs(root)
		relSource, _ := filepath.Rel(absRoot, result.Path)
		relOut, _ := filepath.Rel(absRoot, result.OutDir)

		extractResults = append(extractResults, ExtractResult{
			Path:   relSource,
			OutDir: relOut,
			Blocks: result.Blocks,
		})

		slog.Debug("file processed",
			"source", relSource,
			"output", relOut,
			"blocks", result.Blocks,
		)
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("encountered %d errors during extraction. Please rerun with -debug to see trace", len(errors))
	}

	slog.Debug("extraction completed", "duration", time.Since(startTime), "processed", len(extractResults))
	return extractResults, nil
}

func (p *Processor) processFile(path string) processResult {
	startTime := time.Now()
	var result processResult

	absPath, err := filepath.Abs(path)
	if err != nil {
		result.Error = fmt.Errorf("failed to resolve absolute path: %w", err)
		return result
	}

	result.Path = absPath

	slog.Debug("processing file", "path", absPath)

	if !strings.HasSuffix(absPath, fileExtension) {
		result.Error = fmt.Errorf("invalid file extension, expected %s", fileExtension)
		return result
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		result.Error = fmt.Errorf("error reading file: %w", err)
		return result
	}

	// One output directory per source: song.chart.md -> song.chart/
	outDir := strings.TrimSuffix(absPath, ".md")
	result.OutDir = outDir

	pl := pipeline.New(render.NewSVG(), store.NewDir(outDir), p.opts)

	manifest, err := pl.Run(pipeline.Source{
		Content:  bytes.NewReader(content),
		Metadata: chartgen.MetaData{Source: absPath},
	})
	if err != nil {
		result.Error = err
		return result
	}

	result.Blocks = len(manifest.Items)
	slog.Debug("file processed",
		"path", absPath,
		"duration", time.Since(startTime))

	return result
}
