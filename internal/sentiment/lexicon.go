// internal/sentiment/lexicon.go
package sentiment

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"review_harvester/internal/fetch"
)

// negationFactor dampens and flips a token's valence when a negator
// appears shortly before it. alpha normalizes the raw sum into [-1,1].
const (
	negationFactor = -0.74
	alpha          = 15.0
)

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "neither": {}, "nor": {},
	"cannot": {}, "cant": {}, "wont": {}, "dont": {}, "doesnt": {}, "didnt": {},
	"isnt": {}, "wasnt": {}, "arent": {}, "werent": {}, "shouldnt": {},
	"couldnt": {}, "wouldnt": {}, "aint": {}, "without": {},
}

// Lexicon scores text by summing word valences from a VADER-style lexicon,
// with simple negation handling. It is the default backend.
type Lexicon struct {
	valences map[string]float64
}

func NewLexicon(valences map[string]float64) *Lexicon {
	return &Lexicon{valences: valences}
}

func (l *Lexicon) Name() string { return "lexicon/vader" }

// Score returns a sentiment score in [-1,1]. Empty or blank text is 0.
func (l *Lexicon) Score(_ context.Context, text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	tokens := tokenize(text)
	var sum float64
	for i, tok := range tokens {
		v, ok := l.valences[tok]
		if !ok {
			continue
		}
		if negatedBefore(tokens, i) {
			v *= negationFactor
		}
		sum += v
	}
	return normalizeScore(sum)
}

// negatedBefore checks the three tokens preceding position i.
func negatedBefore(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-3; j-- {
		if _, ok := negations[tokens[j]]; ok {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '\''
		})
		f = strings.ReplaceAll(f, "'", "")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func normalizeScore(sum float64) float64 {
	return sum / math.Sqrt(sum*sum+alpha)
}

// LoadLexicon reads a tab-separated lexicon file: token, valence, rest
// ignored. Malformed lines are skipped.
func LoadLexicon(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	valences := make(map[string]float64, 8192)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		parts := strings.Split(sc.Text(), "\t")
		if len(parts) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		valences[strings.TrimSpace(parts[0])] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	if len(valences) == 0 {
		return nil, fmt.Errorf("lexicon %s is empty", path)
	}
	return valences, nil
}

// EnsureLexicon downloads the lexicon file once and caches it at path.
func EnsureLexicon(ctx context.Context, path, url string, f *fetch.Client) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	log.Info().Str("url", url).Str("path", path).Msg("downloading sentiment lexicon")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create lexicon dir: %w", err)
	}
	b, err := f.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("download lexicon: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
