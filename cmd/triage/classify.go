package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/spf13/cobra"
)

func newClassifyCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "classify [ticket...]",
		Short: "Classify tickets given as arguments or one per line in a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			tickets := args
			if file != "" {
				lines, err := readLines(file)
				if err != nil {
					return err
				}
				tickets = append(tickets, lines...)
			}
			if len(tickets) == 0 {
				return errors.New("no tickets given")
			}

			classifier, closeCache, err := newClassifier(a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer closeCache()

			results := classifier.ClassifyBatch(cmd.Context(), tickets, a.cfg.Concurrency)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			failed := 0
			for _, res := range results {
				var body any
				if res.Err != nil {
					body = triage.ErrorBody(res.Err)
					failed++
				} else {
					body = res.Result.Body()
				}
				if err := enc.Encode(body); err != nil {
					return fmt.Errorf("failed to write result: %w", err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d tickets failed", failed, len(tickets))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "File with one ticket per line")

	return cmd
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return lines, nil
}
