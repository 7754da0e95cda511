package triage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Dataset file names written by WriteSplit.
const (
	TrainFile = "train.jsonl"
	EvalFile  = "eval.jsonl"
)

const maxLineBytes = 1 << 20

// TokenCounter counts the tokens of a text under some tokenizer.
type TokenCounter interface {
	CountTokens(text string) (int, error)
}

// DatasetStats summarizes a set of examples.
type DatasetStats struct {
	Count      int
	ByCategory map[Category]int
	ByPriority map[Priority]int

	// Token lengths of the training text, prompt followed by completion.
	MaxTokens  int
	MeanTokens float64
	// OverLimit counts examples longer than the limit given to Stats; a trainer truncating at
	// that length would cut into their completion.
	OverLimit int
}

// WriteExamples writes examples as newline-delimited JSON, one object per line.
func WriteExamples(w io.Writer, examples []Example) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("failed to encode example %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush examples: %w", err)
	}
	return nil
}

// ReadExamples reads newline-delimited JSON examples. Blank lines are skipped.
func ReadExamples(r io.Reader) ([]Example, error) {
	var examples []Example

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var ex Example
		if err := json.Unmarshal([]byte(text), &ex); err != nil {
			return nil, fmt.Errorf("failed to parse example on line %d: %w", line, err)
		}
		examples = append(examples, ex)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read examples: %w", err)
	}

	return examples, nil
}

// WriteSplit writes the training and evaluation partitions into dir, creating it if needed.
func WriteSplit(dir string, train, eval []Example) (trainPath, evalPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create dataset dir: %w", err)
	}

	trainPath = filepath.Join(dir, TrainFile)
	if err := writeExamplesFile(trainPath, train); err != nil {
		return "", "", err
	}
	evalPath = filepath.Join(dir, EvalFile)
	if err := writeExamplesFile(evalPath, eval); err != nil {
		return "", "", err
	}

	return trainPath, evalPath, nil
}

// ReadExamplesFile reads the examples stored at path.
func ReadExamplesFile(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open examples file: %w", err)
	}
	defer f.Close()

	return ReadExamples(f)
}

// Stats computes label distribution and token lengths of examples. counter may be nil, in which
// case token fields stay zero. limit is the trainer's maximum sequence length; zero disables the
// over-limit count.
func Stats(examples []Example, counter TokenCounter, limit int) (DatasetStats, error) {
	stats := DatasetStats{
		Count:      len(examples),
		ByCategory: make(map[Category]int),
		ByPriority: make(map[Priority]int),
	}

	total := 0
	for i, ex := range examples {
		var l Label
		if err := json.Unmarshal([]byte(ex.Completion), &l); err != nil {
			return DatasetStats{}, fmt.Errorf("failed to parse completion of example %d: %w", i, err)
		}
		stats.ByCategory[l.Category]++
		stats.ByPriority[l.Priority]++

		if counter == nil {
			continue
		}
		n, err := counter.CountTokens(ex.Prompt + ex.Completion)
		if err != nil {
			return DatasetStats{}, fmt.Errorf("failed to count tokens of example %d: %w", i, err)
		}
		total += n
		stats.MaxTokens = max(stats.MaxTokens, n)
		if limit > 0 && n > limit {
			stats.OverLimit++
		}
	}
	if counter != nil && len(examples) > 0 {
		stats.MeanTokens = float64(total) / float64(len(examples))
	}

	return stats, nil
}

func writeExamplesFile(path string, examples []Example) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteExamples(f, examples); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
