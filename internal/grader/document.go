package grader

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/andybalholm/cascadia"
	"golang.org/x/crypto/sha3"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Document is a parsed HTML document that can be queried by CSS selector.
// It is read-only once constructed and safe for concurrent use.
type Document struct {
	// root is the document node returned by html.Parse.
	root *html.Node

	// digest is the SHA3-256 hash of the raw, undecoded input.
	digest [32]byte

	// size is the length of the raw input in bytes.
	size int
}

// LoadDocument reads the file at path and parses it as HTML.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided document path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return parseBytes(data)
}

// ParseDocument reads r to the end and parses it as HTML.
func ParseDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return parseBytes(data)
}

// parseBytes decodes data to UTF-8 and builds the DOM.
// The encoding is sniffed from a BOM or a <meta charset> declaration,
// otherwise the HTML5 default applies. Malformed markup is repaired by the HTML5 parser
// rather than rejected.
func parseBytes(data []byte) (*Document, error) {
	enc, _, _ := charset.DetermineEncoding(data, "text/html")
	decoded := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(enc.NewDecoder()))

	root, err := html.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	return &Document{
		root:   root,
		digest: sha3.Sum256(data),
		size:   len(data),
	}, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Digest returns the hex encoded SHA3-256 hash of the raw document bytes.
func (d *Document) Digest() string {
	return hex.EncodeToString(d.digest[:])
}

// Size returns the raw document size in bytes.
func (d *Document) Size() int {
	return d.size
}

// Query returns every element matching selector, in document order.
func (d *Document) Query(selector string) ([]*html.Node, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	return sel.MatchAll(d.root), nil
}

// Contains reports whether at least one element matches selector.
func (d *Document) Contains(selector string) (bool, error) {
	sel, err := compile(selector)
	if err != nil {
		return false, err
	}
	return d.contains(sel), nil
}

// contains runs an already compiled selector.
func (d *Document) contains(sel cascadia.Selector) bool {
	return sel.MatchFirst(d.root) != nil
}

// compile turns a selector string into a matcher.
// Selector groups such as "h1, h2" are accepted.
func compile(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, &SelectorSyntaxError{Selector: selector, Err: err}
	}
	return sel, nil
}
