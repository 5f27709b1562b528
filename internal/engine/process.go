package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/danieljhkim/bibtidy/internal/abbrev"
	"github.com/danieljhkim/bibtidy/internal/bibtex"
	"github.com/danieljhkim/bibtidy/internal/clock"
)

// Process runs the enabled stages over one reference file: doi cleaning
// first, then journal abbreviation. A missing abbreviation table does not
// fail the run; it is reported through TableUnavailable and the change log.
func (e *Engine) Process(ctx context.Context, req *ProcessRequest) (*ProcessResult, error) {
	if strings.TrimSpace(req.InputPath) == "" {
		return nil, ErrNoInput
	}
	if !req.Abbreviate && !req.CleanConflicts {
		return nil, ErrNoStages
	}

	outputPath, err := e.resolveOutputPath(req)
	if err != nil {
		return nil, err
	}

	start := e.clock.Now()
	result := &ProcessResult{
		InputPath:  req.InputPath,
		OutputPath: outputPath,
		StartedAt:  start,
	}
	log := e.logger.With(zap.String("input", req.InputPath))

	raw, err := e.fs.ReadFile(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", req.InputPath, err)
	}
	result.InputDigest = e.hasher.HashBytes(raw)

	// Undecodable bytes are dropped rather than rejected.
	text := strings.ToValidUTF8(string(raw), "")
	result.Entries = len(bibtex.Split(text))
	log.Debug("input read", zap.Int("bytes", len(raw)), zap.Int("entries", result.Entries))

	if req.CleanConflicts {
		text = e.cleanStage(text, result)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Abbreviate {
		text, err = e.abbrevStage(text, req, result)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := []byte(text)
	result.Text = text
	result.OutputDigest = e.hasher.HashBytes(out)
	result.Changed = result.OutputDigest != result.InputDigest

	if !req.DryRun {
		upToDate, err := e.outputUpToDate(outputPath, result.OutputDigest)
		if err != nil {
			return nil, err
		}
		result.UpToDate = upToDate
	}

	if !req.DryRun && !result.UpToDate {
		perm := os.FileMode(0644)
		if info, err := e.fs.Stat(req.InputPath); err == nil {
			perm = info.Mode().Perm()
		}
		if err := e.fs.AtomicWrite(outputPath, out, perm); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		result.Written = true
	}

	result.Duration = clock.Since(e.clock, start)
	log.Info("processing complete",
		zap.String("output", outputPath),
		zap.Bool("written", result.Written),
		zap.Bool("up_to_date", result.UpToDate),
		zap.Int("conflicts_resolved", result.ConflictsResolved),
		zap.Int("replacements", len(result.Replacements)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (e *Engine) cleanStage(text string, result *ProcessResult) string {
	cleaned := bibtex.Clean(text)
	result.ConflictsResolved = len(cleaned.Modified)
	result.DOILinesRemoved = cleaned.LinesRemoved

	for _, entry := range cleaned.Modified {
		result.addLog(StageClean, false, fmt.Sprintf("removed doi from %s (url present)", entry.Label()))
	}
	if result.ConflictsResolved > 0 {
		result.addLog(StageClean, false, fmt.Sprintf("removed %d redundant doi fields (url present)", result.ConflictsResolved))
	} else {
		result.addLog(StageClean, false, "no conflicting url/doi entries found")
	}
	return cleaned.Text
}

func (e *Engine) abbrevStage(text string, req *ProcessRequest, result *ProcessResult) (string, error) {
	table, err := e.Table(req.TablePath)
	if err != nil {
		return "", err
	}
	result.Table = DescribeTable(table)

	res, err := abbrev.Substitute(text, table, req.Progress)
	if errors.Is(err, abbrev.ErrTableUnavailable) {
		result.TableUnavailable = true
		result.addLog(StageAbbrev, true, fmt.Sprintf("abbreviation table unavailable: %s", table.Source))
		e.logger.Warn("abbreviation skipped, table unavailable", zap.String("table", table.Source))
		return text, nil
	}
	if err != nil {
		return "", err
	}

	result.Replacements = res.Replacements
	result.Occurrences = res.Occurrences()
	for _, line := range res.Log() {
		result.addLog(StageAbbrev, false, line)
	}
	if len(res.Replacements) == 0 {
		result.addLog(StageAbbrev, false, "no journal names needed abbreviation")
	}
	return res.Text, nil
}

// outputUpToDate reports whether path already holds exactly the bytes with
// the given digest.
func (e *Engine) outputUpToDate(path, digest string) (bool, error) {
	exists, err := e.fs.Exists(path)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !exists {
		return false, nil
	}
	current, err := e.hasher.HashFile(path)
	if err != nil {
		return false, err
	}
	if current != digest {
		e.logger.Debug("replacing existing output", zap.String("output", path))
		return false, nil
	}
	return true, nil
}

func (e *Engine) resolveOutputPath(req *ProcessRequest) (string, error) {
	if req.OutputPath != "" {
		if sameFile(req.OutputPath, req.InputPath) {
			return "", ErrOverwriteInput
		}
		return req.OutputPath, nil
	}

	prefix := req.OutputPrefix
	if prefix == "" {
		prefix = e.settings.OutputPrefix
	}
	if prefix == "" {
		return "", ErrOverwriteInput
	}
	if err := e.fs.ValidateFileName(prefix); err != nil {
		return "", fmt.Errorf("invalid output prefix: %w", err)
	}
	return OutputPathFor(req.InputPath, prefix), nil
}

// OutputPathFor derives the output path: prefix + base name, in the input's
// directory.
func OutputPathFor(inputPath, prefix string) string {
	return filepath.Join(filepath.Dir(inputPath), prefix+filepath.Base(inputPath))
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
