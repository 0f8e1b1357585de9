package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/driftchain/internal/model"
)

// Runner runs one text through a language chain
type Runner interface {
	RunChain(ctx context.Context, text string, chain []string) (*model.RunResult, error)
}

// RunJob runs a single text through a chain
type RunJob struct {
	Index  int
	Text   string
	Chain  []string
	Runner Runner
}

// Execute executes the run job
func (j *RunJob) Execute(ctx context.Context) Result {
	result, err := j.Runner.RunChain(ctx, j.Text, j.Chain)
	return &RunOutcome{
		Index:  j.Index,
		Text:   j.Text,
		Result: result,
		Error:  err,
	}
}

// RunOutcome is the result of one batch entry
type RunOutcome struct {
	Index  int
	Text   string
	Result *model.RunResult
	Error  error
}

// GetError returns the error from the run
func (r *RunOutcome) GetError() error {
	return r.Error
}

// BatchProcessor runs many texts through the same chain concurrently.
// Each run is still strictly sequential hop by hop; only whole runs overlap.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessTexts runs every text and returns outcomes in input order
func (b *BatchProcessor) ProcessTexts(ctx context.Context, texts []string, chain []string) []*RunOutcome {
	if len(texts) == 0 {
		return []*RunOutcome{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	outcomes := make([]*RunOutcome, len(texts))
	for i, text := range texts {
		if !pool.Submit(&RunJob{Index: i, Text: text, Chain: chain, Runner: b.runner}) {
			break
		}
	}

	for _, result := range pool.Wait() {
		outcome := result.(*RunOutcome)
		outcomes[outcome.Index] = outcome
	}

	// Entries never picked up because ctx ended
	for i := range outcomes {
		if outcomes[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("run not started")
			}
			outcomes[i] = &RunOutcome{Index: i, Text: texts[i], Error: err}
		}
	}

	return outcomes
}

// ProcessFile reads texts from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string, chain []string) ([]*RunOutcome, error) {
	texts, err := ReadTextsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}

	return b.ProcessTexts(ctx, texts, chain), nil
}

// ReadTextsFromFile reads texts from a file, one per line. Blank lines and
// lines starting with # are skipped; duplicates are dropped.
func ReadTextsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var texts []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			texts = append(texts, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return texts, nil
}
