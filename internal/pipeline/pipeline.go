// Package pipeline orchestrates the statement analysis stages: sniff,
// parse, classify, normalize, aggregate. The pipeline is a pure function
// of the uploaded bytes; every parsing failure has a defined degraded
// output and only an empty upload or an expired deadline surfaces to the
// caller.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finaware/statement-analyzer/internal/aggregate"
	"github.com/finaware/statement-analyzer/internal/classify"
	"github.com/finaware/statement-analyzer/internal/extractor"
	"github.com/finaware/statement-analyzer/internal/models"
	"github.com/finaware/statement-analyzer/internal/narrative"
	"github.com/finaware/statement-analyzer/internal/normalize"
	"github.com/finaware/statement-analyzer/internal/sniffer"
	"github.com/finaware/statement-analyzer/internal/tabular"
	"github.com/finaware/statement-analyzer/internal/worker"
)

// ErrTimeout is returned when the per-request deadline expires. It is
// retryable: nothing about the upload itself was at fault.
var ErrTimeout = errors.New("analysis timed out")

// Analyzer runs the pipeline. Safe for concurrent use; it holds no
// per-request state.
type Analyzer struct {
	vocab classify.Vocabulary
	pool  *worker.Pool
	log   *slog.Logger
}

// New builds an Analyzer. The pool bounds concurrent CPU-heavy
// extraction work across requests.
func New(vocab classify.Vocabulary, pool *worker.Pool, log *slog.Logger) *Analyzer {
	return &Analyzer{vocab: vocab, pool: pool, log: log}
}

// Analyze processes one uploaded document. The only errors it returns
// are deadline/cancellation ones; all parse failures degrade.
func (a *Analyzer) Analyze(ctx context.Context, doc models.RawDocument) (*models.AnalysisResult, error) {
	if len(bytes.TrimSpace(doc.Data)) == 0 {
		return &models.AnalysisResult{
			Format:  sniffer.Detect(doc),
			Path:    models.PathEmpty,
			Quality: "none",
		}, nil
	}

	format := sniffer.Detect(doc)
	a.log.Info("analyzing statement", "filename", doc.Filename, "format", format, "bytes", len(doc.Data))

	switch format {
	case models.FormatCSV, models.FormatTSV, models.FormatSpreadsheet,
		models.FormatJSON, models.FormatXML:
		return a.structuredPath(ctx, doc, format)
	default:
		return a.textPath(ctx, doc, format)
	}
}

func (a *Analyzer) structuredPath(ctx context.Context, doc models.RawDocument, format models.Format) (*models.AnalysisResult, error) {
	var table *models.ParsedTable
	var salvage string
	var parseErr error

	if format == models.FormatSpreadsheet {
		// Workbook decoding is the CPU-heavy case; run it on the pool.
		err := a.pool.Do(ctx, func() error {
			table, salvage, parseErr = tabular.Parse(doc, format)
			return nil
		})
		if err != nil {
			return nil, wrapCtxErr(err)
		}
	} else {
		table, salvage, parseErr = tabular.Parse(doc, format)
	}
	if err := wrapCtxErr(ctx.Err()); err != nil {
		return nil, err
	}

	if parseErr != nil {
		a.log.Info("structural parse failed, falling back to narrative",
			"format", format, "reason", parseErr)
		return a.narrativeResult(format, extractor.ToLines(salvage)), nil
	}
	if table.Dropped > 0 {
		a.log.Warn("dropped rows with mismatched cell count",
			"format", format, "dropped", table.Dropped)
	}

	return a.tableResult(ctx, format, table)
}

// tableResult classifies and normalizes a parsed table, rejecting to the
// narrative path when no usable columns emerge.
func (a *Analyzer) tableResult(ctx context.Context, format models.Format, table *models.ParsedTable) (*models.AnalysisResult, error) {
	cls, err := classify.Classify(table, a.vocab)
	if err != nil {
		a.log.Info("table rejected by classifier, falling back to narrative",
			"format", format, "reason", err)
		return a.narrativeResult(format, extractor.ToLines(tabular.Flatten(table))), nil
	}
	if err := wrapCtxErr(ctx.Err()); err != nil {
		return nil, err
	}

	txns, skipped := normalize.Rows(table, cls, a.log)
	if skipped > 0 {
		a.log.Info("skipped rows during normalization", "skipped", skipped)
	}

	conf := tableConfidence(len(table.Rows), txns)
	return &models.AnalysisResult{
		Format:       format,
		Path:         models.PathTable,
		Summary:      aggregate.Summarize(txns),
		Transactions: txns,
		Confidence:   conf,
		Quality:      qualityLabel(conf),
	}, nil
}

func (a *Analyzer) textPath(ctx context.Context, doc models.RawDocument, format models.Format) (*models.AnalysisResult, error) {
	var text string
	switch format {
	case models.FormatPDF:
		err := a.pool.Do(ctx, func() error {
			pages, pdfErr := extractor.ExtractPDF(doc.Data)
			if pdfErr != nil {
				a.log.Info("pdf extraction failed", "reason", pdfErr)
				return nil
			}
			text = strings.Join(pages, "\n")
			return nil
		})
		if err != nil {
			return nil, wrapCtxErr(err)
		}
	case models.FormatDocument:
		err := a.pool.Do(ctx, func() error {
			extracted, docErr := extractor.ExtractDocument(doc.Data)
			if docErr != nil {
				a.log.Info("document extraction failed", "reason", docErr)
				return nil
			}
			text = extracted
			return nil
		})
		if err != nil {
			return nil, wrapCtxErr(err)
		}
	default:
		text = extractor.DecodeText(doc.Data)
	}
	if err := wrapCtxErr(ctx.Err()); err != nil {
		return nil, err
	}

	lines := extractor.ToLines(text)

	// Regular delimited text is promoted to a table; everything else goes
	// to the narrative extractor.
	if looksDelimited(lines) {
		if table, _, err := tabular.ParseDelimited(text); err == nil {
			if res, err := a.tableResult(ctx, format, table); err != nil {
				return nil, err
			} else if len(res.Transactions) > 0 {
				return res, nil
			}
		}
	}

	return a.narrativeResult(format, lines), nil
}

func (a *Analyzer) narrativeResult(format models.Format, lines []models.RawLine) *models.AnalysisResult {
	txns, candidates := narrative.Extract(lines)
	conf := narrativeConfidence(len(lines), candidates, txns)
	return &models.AnalysisResult{
		Format:       format,
		Path:         models.PathNarrative,
		Summary:      aggregate.Summarize(txns),
		Transactions: txns,
		Confidence:   conf,
		Quality:      qualityLabel(conf),
	}
}

// looksDelimited reports whether most lines share a comma or tab
// separator, the cue for promoting text to the table path.
func looksDelimited(lines []models.RawLine) bool {
	if len(lines) < 2 {
		return false
	}
	delimited := 0
	for _, line := range lines {
		if strings.ContainsAny(line.Text, ",\t") {
			delimited++
		}
	}
	return float64(delimited)/float64(len(lines)) >= 0.7
}

// tableConfidence blends row yield (how many rows became transactions)
// with date yield (how many of those carry a parsed date).
func tableConfidence(rows int, txns []models.Transaction) float64 {
	if rows == 0 || len(txns) == 0 {
		return 0
	}
	yield := float64(len(txns)) / float64(rows)
	if yield > 1 {
		yield = 1
	}
	return 0.5*yield + 0.5*datedFraction(txns)
}

// narrativeConfidence uses the same blend over amount-bearing clauses,
// capped at 0.6: heuristically recovered text never outranks a real
// table.
func narrativeConfidence(lines, candidates int, txns []models.Transaction) float64 {
	if lines == 0 || candidates == 0 || len(txns) == 0 {
		return 0
	}
	yield := float64(candidates) / float64(lines)
	if yield > 1 {
		yield = 1
	}
	return 0.6 * (0.5*yield + 0.5*datedFraction(txns))
}

func datedFraction(txns []models.Transaction) float64 {
	dated := 0
	for _, txn := range txns {
		if txn.Date != nil {
			dated++
		}
	}
	return float64(dated) / float64(len(txns))
}

func qualityLabel(conf float64) string {
	switch {
	case conf >= 0.75:
		return "high"
	case conf >= 0.4:
		return "medium"
	case conf > 0:
		return "low"
	}
	return "none"
}

func wrapCtxErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
