package internal

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dlclark/regexp2"
)

type pair struct {
	left  string
	right string
}

// BPE is a byte-level BPE tokenizer loaded from a Hugging Face style vocab.json and merges.txt,
// as shipped with Qwen and GPT-2 family models.
type BPE struct {
	vocab         map[string]int
	merges        map[pair]int
	specialTokens map[string]int
	byteEncoder   [256]string
	preTokenizeRe *regexp2.Regexp
}

var defaultSpecialTokens = map[string]int{
	"<|endoftext|>": 151643,
	"<|im_start|>":  151644,
	"<|im_end|>":    151645,
}

const preTokenizePattern = `(?i:'s|'t|'re|'ve|'m|'ll|'d)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]+|\s+(?!\S)|\s+`

// NewBPE loads the vocabulary and merge ranks from the given files.
func NewBPE(vocabPath, mergesPath string) (*BPE, error) {
	vocabFile, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocab file: %w", err)
	}
	mergesFile, err := os.ReadFile(mergesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read merges file: %w", err)
	}

	return ParseBPE(vocabFile, string(mergesFile))
}

// ParseBPE builds a tokenizer from the contents of vocab.json and merges.txt. Lines of merges
// starting with '#' are headers.
func ParseBPE(vocabJSON []byte, merges string) (*BPE, error) {
	var vocab map[string]int
	if err := json.Unmarshal(vocabJSON, &vocab); err != nil {
		return nil, fmt.Errorf("failed to parse vocab JSON: %w", err)
	}

	ranks := make(map[pair]int)
	rank := 0
	for line := range strings.SplitSeq(merges, "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			continue
		}
		ranks[pair{left: parts[0], right: parts[1]}] = rank
		rank++
	}

	specials := make([]string, 0, len(defaultSpecialTokens))
	for tok := range defaultSpecialTokens {
		specials = append(specials, regexp2.Escape(tok))
	}
	re, err := regexp2.Compile(strings.Join(specials, "|")+"|"+preTokenizePattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pre-tokenization regex: %w", err)
	}

	return &BPE{
		vocab:         vocab,
		merges:        ranks,
		specialTokens: defaultSpecialTokens,
		byteEncoder:   bytesToUnicode(),
		preTokenizeRe: re,
	}, nil
}

// Encode converts text into token IDs.
func (t *BPE) Encode(text string) ([]int, error) {
	var ids []int

	for _, chunk := range t.preTokenize(text) {
		if id, ok := t.specialTokens[chunk]; ok {
			ids = append(ids, id)
			continue
		}

		symbols := make([]string, 0, len(chunk))
		for _, b := range []byte(chunk) {
			symbols = append(symbols, t.byteEncoder[b])
		}

		for _, token := range t.bpe(symbols) {
			id, ok := t.vocab[token]
			if !ok {
				return nil, fmt.Errorf("token not found in vocabulary: %q", token)
			}
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// CountTokens returns the number of tokens in text.
func (t *BPE) CountTokens(text string) (int, error) {
	ids, err := t.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (t *BPE) preTokenize(text string) []string {
	var parts []string
	match, err := t.preTokenizeRe.FindStringMatch(text)
	for match != nil && err == nil {
		parts = append(parts, match.String())
		match, err = t.preTokenizeRe.FindNextMatch(match)
	}
	return parts
}

// bpe repeatedly merges the adjacent pair with the lowest rank.
func (t *BPE) bpe(tokens []string) []string {
	for len(tokens) > 1 {
		best := pair{}
		minRank := math.MaxInt
		for i := 0; i < len(tokens)-1; i++ {
			p := pair{left: tokens[i], right: tokens[i+1]}
			if rank, ok := t.merges[p]; ok && rank < minRank {
				minRank = rank
				best = p
			}
		}
		if minRank == math.MaxInt {
			break
		}

		merged := make([]string, 0, len(tokens))
		for i := 0; i < len(tokens); i++ {
			if i < len(tokens)-1 && tokens[i] == best.left && tokens[i+1] == best.right {
				merged = append(merged, best.left+best.right)
				i++
				continue
			}
			merged = append(merged, tokens[i])
		}
		tokens = merged
	}
	return tokens
}

// bytesToUnicode maps every byte to a printable rune the way GPT-2 vocabularies expect: printable
// Latin-1 bytes map to themselves, the rest to code points from 256 upwards.
func bytesToUnicode() [256]string {
	var table [256]string
	n := 0
	for b := range 256 {
		printable := (b >= '!' && b <= '~') || (b >= 0xA1 && b <= 0xAC) || (b >= 0xAE && b <= 0xFF)
		if printable {
			table[b] = string(rune(b))
			continue
		}
		table[b] = string(rune(256 + n))
		n++
	}
	return table
}
