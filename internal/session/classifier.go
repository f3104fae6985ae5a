// Package session turns the operator's raw input into durable log entries.
//
// A Classifier is the state machine of one counting session. The newest log
// entry stays open while the operator adjusts its count, publication year or
// comment; it is written to the session log only when the next barcode
// arrives or the session is closed.
package session

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"cartographia/stocktake/internal/barcode"
	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/models"
	"cartographia/stocktake/internal/stockerror"
)

// Token classification bounds.
const (
	MinBarcodeLength = 8
	FirstYear        = 1900
	LastYear         = 2099
)

// ErrClosed is returned for input fed to a closed session.
var ErrClosed = errors.New("session is closed")

// ResultKind tells what a token did.
type ResultKind int

const (
	Ignored ResultKind = iota
	NewBarcode
	CountSet
	YearSet
	CommentSet
	ParseFailed
)

func (k ResultKind) String() string {
	switch k {
	case NewBarcode:
		return "new_barcode"
	case CountSet:
		return "count_set"
	case YearSet:
		return "year_set"
	case CommentSet:
		return "comment_set"
	case ParseFailed:
		return "parse_failed"
	default:
		return "ignored"
	}
}

// Result describes the effect of one token.
type Result struct {
	Kind ResultKind
	// Entry is the open entry after the token, nil when nothing is open.
	Entry *models.LogEntry
	// Match is the catalog lookup behind a NewBarcode result.
	Match catalog.Match
	// ZeroStock is set when the new entry's product has a recorded stock of zero.
	ZeroStock bool
	Warnings  []error
}

// Chooser picks one product when a barcode matches several. Returning nil
// means none of them.
type Chooser interface {
	Choose(code string, candidates []*models.Product) *models.Product
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(code string, candidates []*models.Product) *models.Product

func (f ChooserFunc) Choose(code string, candidates []*models.Product) *models.Product {
	return f(code, candidates)
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithChooser sets the collaborator consulted on ambiguous barcodes.
func WithChooser(chooser Chooser) Option {
	return func(c *Classifier) {
		c.chooser = chooser
	}
}

// WithClock overrides the time source of new entries.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		c.now = now
	}
}

// Classifier classifies operator tokens and maintains the session log.
type Classifier struct {
	catalog *catalog.Catalog
	store   *Store
	writer  EntryWriter
	chooser Chooser
	now     func() time.Time
	logger  logging.Logger
	// failed is sticky: after a write failure or Close every token is refused.
	failed error
}

// NewClassifier creates a classifier over cat that commits entries through
// writer. A nil catalog behaves like an empty one.
func NewClassifier(cat *catalog.Catalog, writer EntryWriter, logger logging.Logger, opts ...Option) *Classifier {
	if cat == nil {
		cat = catalog.Empty()
	}
	c := &Classifier{
		catalog: cat,
		store:   NewStore(),
		writer:  writer,
		now:     time.Now,
		logger:  logger.WithField(logging.FieldComponent, "classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Feed classifies input, looking new barcodes up in the catalog. Ambiguous
// barcodes are resolved through the Chooser, if any.
func (c *Classifier) Feed(input string) (Result, error) {
	token := strings.TrimSpace(input)
	if barcode.IsNumericToken(token) {
		if normalized := barcode.NormalizeToken(token); len(normalized) >= MinBarcodeLength {
			match := c.catalog.LookupNormalized(normalized)
			var product *models.Product
			switch match.Kind {
			case catalog.Found:
				product = match.Product()
			case catalog.Ambiguous:
				if c.chooser != nil {
					product = c.chooser.Choose(normalized, match.Candidates)
				}
			}
			return c.classify(token, product, &match)
		}
	}
	return c.classify(token, nil, nil)
}

// FeedResolved classifies input using product, already chosen by the caller,
// for a new barcode. product may be nil.
func (c *Classifier) FeedResolved(input string, product *models.Product) (Result, error) {
	return c.classify(strings.TrimSpace(input), product, nil)
}

func (c *Classifier) classify(token string, product *models.Product, match *catalog.Match) (Result, error) {
	if c.failed != nil {
		return Result{}, c.failed
	}
	if token == "" {
		return Result{Kind: Ignored}, nil
	}

	open := c.store.Open()
	if !barcode.IsNumericToken(token) {
		if open == nil {
			return Result{Kind: Ignored}, nil
		}
		open.Comment = token
		return Result{Kind: CommentSet, Entry: open}, nil
	}

	normalized := barcode.NormalizeToken(token)
	if len(normalized) >= MinBarcodeLength {
		return c.newBarcode(normalized, product, match)
	}
	if open == nil {
		return Result{Kind: Ignored}, nil
	}

	n, err := strconv.Atoi(normalized)
	if err != nil {
		c.logger.Debug("Numeric token not parsable", logging.F("token", token))
		return Result{Kind: ParseFailed, Entry: open}, nil
	}
	switch {
	case n < FirstYear:
		open.Count = n
		return Result{Kind: CountSet, Entry: open}, nil
	case n <= LastYear:
		open.PublicationYear = strconv.Itoa(n)
		return Result{Kind: YearSet, Entry: open}, nil
	default:
		return Result{Kind: Ignored, Entry: open}, nil
	}
}

func (c *Classifier) newBarcode(normalized string, product *models.Product, match *catalog.Match) (Result, error) {
	if err := c.commitOpen(); err != nil {
		return Result{}, err
	}

	code := normalized
	if product != nil {
		code = product.Barcode()
	}
	entry := models.NewLogEntry(c.now(), code, product)
	c.store.Push(entry)

	result := Result{Kind: NewBarcode, Entry: entry}
	switch {
	case match != nil:
		result.Match = *match
	case product != nil:
		result.Match = catalog.Match{Kind: catalog.Found, Code: product.NormalizedBarcode(), Candidates: []*models.Product{product}}
	default:
		result.Match = catalog.Match{Kind: catalog.NotFound, Code: normalized}
	}

	logger := c.logger.WithFields(
		logging.F(logging.FieldBarcode, code),
		logging.F(logging.FieldStatus, result.Match.Kind.String()))
	if !barcode.IsValid(normalized) {
		result.Warnings = append(result.Warnings, &stockerror.ValidationWarning{
			Kind:    stockerror.InvalidCheckDigit,
			Barcode: normalized,
		})
		logger.Warn("Barcode check digit is invalid")
	}
	if stock, ok := entry.Stock(); ok && stock == 0 {
		result.ZeroStock = true
		logger.Warn("Product has no recorded stock")
	}
	logger.Debug("New log entry opened")
	return result, nil
}

func (c *Classifier) commitOpen() error {
	open := c.store.Open()
	if open == nil {
		return nil
	}
	if err := c.writer.WriteEntry(open); err != nil {
		c.failed = err
		c.logger.WithError(err).Error("Failed to write log entry, session stopped")
		return err
	}
	open.Commit()
	c.logger.Debug("Log entry committed",
		logging.F(logging.FieldBarcode, open.Barcode),
		logging.F(logging.FieldCount, open.Count))
	return nil
}

// Flush commits the open entry, if any.
func (c *Classifier) Flush() error {
	if c.failed != nil {
		return c.failed
	}
	return c.commitOpen()
}

// Open returns the uncommitted head entry, or nil.
func (c *Classifier) Open() *models.LogEntry {
	return c.store.Open()
}

// Entries returns a snapshot of the session log, newest first.
func (c *Classifier) Entries() []models.LogEntry {
	return c.store.Entries()
}

// Err returns the error that stopped the classifier, if any.
func (c *Classifier) Err() error {
	return c.failed
}

// Preview describes what input would do without changing anything.
func (c *Classifier) Preview(input string) Hint {
	return Preview(c.catalog, input)
}
