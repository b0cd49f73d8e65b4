package grader

import (
	"context"
	"errors"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/andybalholm/cascadia"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of selectors evaluated at once when no
// WithConcurrency option is given.
const DefaultConcurrency = 4

// evalOptions holds the settings for a single Evaluate call.
type evalOptions struct {
	concurrency int
	lenient     bool
}

// Option configures Evaluate.
type Option func(*evalOptions)

// WithConcurrency bounds the number of selectors matched in parallel.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(o *evalOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLenient isolates selector syntax errors. An invalid selector is
// recorded as absent and listed by Result.Invalid instead of failing the
// whole evaluation.
func WithLenient() Option {
	return func(o *evalOptions) {
		o.lenient = true
	}
}

// Evaluate tests every check against doc and reports which selectors match
// at least one element.
//
// The checks are sorted and deduplicated first; the returned Result follows
// that order. A blank check is recorded as false. All selectors are compiled
// before any matching begins. Without WithLenient the first invalid selector
// in sorted order aborts the run with a *SelectorSyntaxError.
//
// Design decision: Strict is the default. A typo in a selector would
// otherwise read as "element missing" in the report. WithLenient exists for
// check lists that are known to contain selectors the engine cannot parse.
//
// checks itself is not modified.
func Evaluate(ctx context.Context, doc *Document, checks []string, opts ...Option) (*Result, error) {
	o := evalOptions{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&o)
	}

	keys := SortChecks(checks)

	compiled := make([]cascadia.Selector, len(keys))
	invalid := make([]string, 0)
	for i, key := range keys {
		if isBlank(key) {
			continue
		}
		sel, err := compile(key)
		if err != nil {
			if !o.lenient {
				return nil, err
			}
			invalid = append(invalid, key)
			continue
		}
		compiled[i] = sel
	}

	present := make([]bool, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, sel := range compiled {
		if sel == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each goroutine owns exactly one slot.
			present[i] = doc.contains(sel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// errgroup only sees cancellation if a goroutine observed it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := newResult(len(keys))
	for i, key := range keys {
		result.set(key, present[i])
	}
	result.invalid = invalid

	return result, nil
}

// SortChecks returns the distinct checks ordered by UTF-16 code units.
// The input slice is left untouched.
func SortChecks(checks []string) []string {
	keys := lo.Uniq(checks)
	slices.SortFunc(keys, compareUTF16)
	return keys
}

// compareUTF16 orders strings by their UTF-16 code units. This differs from
// byte order once characters above U+FFFF meet characters in
// U+E000..U+FFFF. Strings with equal code units fall back to byte order.
func compareUTF16(a, b string) int {
	if c := slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b))); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// isBlank reports whether check has no selector text. Such a check matches
// nothing.
func isBlank(check string) bool {
	return strings.TrimSpace(check) == ""
}

// IsSelectorSyntaxError reports whether err was caused by an invalid selector.
func IsSelectorSyntaxError(err error) bool {
	return errors.Is(err, ErrSelectorSyntax)
}
