// Package script implements the script driver (spec §4.8): a line-
// oriented command file where each line is an independent job, run
// through a bounded worker pool that is the module's sole source of
// parallelism (spec §5).
package script

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/gogpu/texpack"
	"github.com/gogpu/texpack/internal/parallel"
)

// Job is one parsed command line: a subcommand name plus its arguments,
// shell-like whitespace-tokenized (spec §4.8).
type Job struct {
	Line int // 1-based source line number, for error reporting
	Argv []string
}

// ParseFile reads path and returns one Job per non-blank, non-comment
// line. Lines starting with '#' (after leading whitespace) are comments.
func ParseFile(path string) ([]Job, error) {
	const op = "script.ParseFile"
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, texpack.NewError(op, texpack.KindFileNotFound, err)
		}
		return nil, texpack.NewError(op, texpack.KindReadFailed, err)
	}
	defer func() { _ = f.Close() }()

	var jobs []Job
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		argv, err := tokenize(line)
		if err != nil {
			return nil, texpack.NewError(op, texpack.KindBadFlag, fmt.Errorf("line %d: %w", lineNo, err))
		}
		if len(argv) == 0 {
			continue
		}
		jobs = append(jobs, Job{Line: lineNo, Argv: argv})
	}
	if err := scanner.Err(); err != nil {
		return nil, texpack.NewError(op, texpack.KindReadFailed, err)
	}
	return jobs, nil
}

// tokenize splits a line on whitespace, treating a double-quoted run as
// a single token so paths containing spaces (e.g. "-input a b.png") can
// be expressed.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	hasToken := false

	flush := func() {
		if hasToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			hasToken = false
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasToken = true
		case !inQuotes && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quote")
	}
	flush()
	return tokens, nil
}

// Result aggregates one script run's outcome (spec §4.8 "Aggregates:
// commandCount and errorCount").
type Result struct {
	CommandCount int
	ErrorCount   int
	// Failures holds one entry per failed job, in job order (the pool
	// runs jobs concurrently, so this does not reflect completion order).
	Failures []JobFailure
}

// JobFailure records one failed job's line and the error it produced.
type JobFailure struct {
	Line int
	Argv []string
	Err  error
}

// Run executes every job in jobs through a worker pool (spec §4.8),
// calling exec for each one. The pool has min(len(jobs), workers)
// workers; workers <= 0 selects min(len(jobs), runtime.NumCPU()).
// errorCount increments atomically and is only read back after every
// worker has joined (spec §5).
func Run(jobs []Job, workers int, exec func(argv []string) error) Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers <= 0 {
		workers = 1
	}

	pool := parallel.NewWorkerPool(workers)
	defer pool.Close()

	var errorCount int32
	failures := make([]JobFailure, len(jobs))
	failed := make([]bool, len(jobs))

	work := make([]func(), len(jobs))
	for i, job := range jobs {
		i, job := i, job
		work[i] = func() {
			if err := exec(job.Argv); err != nil {
				atomic.AddInt32(&errorCount, 1)
				failures[i] = JobFailure{Line: job.Line, Argv: job.Argv, Err: err}
				failed[i] = true
				return
			}
			texpack.Logger().Info("script job finished", "line", job.Line, "argv", job.Argv)
		}
	}
	pool.ExecuteAll(work)

	result := Result{CommandCount: len(jobs), ErrorCount: int(atomic.LoadInt32(&errorCount))}
	for i, f := range failed {
		if f {
			result.Failures = append(result.Failures, failures[i])
		}
	}
	return result
}
