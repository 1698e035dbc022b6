package updater

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/chaunnm/update-ranking-daily/pkg/grid"
	"github.com/chaunnm/update-ranking-daily/pkg/sheets"

	log "github.com/sirupsen/logrus"
)

// Bucket is a ranking range of the performance summary.
type Bucket int

const (
	BucketTop3 Bucket = iota
	BucketTop5
	BucketTop10
	BucketTop20
	BucketTop50
	BucketTop100
	BucketNA
	numBuckets
)

const summaryLabelPrefix = "Performance "

// bucketLimits holds the upper bound of each numeric bucket, in order.
var bucketLimits = [...]float64{3, 5, 10, 20, 50, 100}

// plainDecimal matches ranks written as digits with an optional fraction.
// Exponents, signs, hex and Inf/NaN are not ranks.
var plainDecimal = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Classify maps a ranking cell to its bucket. Values outside every bucket
// (rank above 100, text, blanks, non-decimal numbers) report false.
func Classify(value string) (Bucket, bool) {
	v := strings.TrimSpace(value)
	if strings.EqualFold(v, "n/a") {
		return BucketNA, true
	}
	if !plainDecimal.MatchString(v) {
		return 0, false
	}
	rank, err := strconv.ParseFloat(v, 64)
	if err != nil || rank < 1 {
		return 0, false
	}
	for i, limit := range bucketLimits {
		if rank <= limit {
			return Bucket(i), true
		}
	}
	return 0, false
}

// Summary counts one dated column.
type Summary struct {
	Counts   [numBuckets]int
	WrongURL int
}

// Total sums the ranking buckets and n/a. Rows flagged with a wrong URL are
// not part of it.
func (s Summary) Total() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}
	return total
}

// Column lays the summary out as the block written above the header:
// "Performance <date>", the six ranges, n/a, wrong URL count, total.
func (s Summary) Column(dateLabel string) [][]interface{} {
	out := make([][]interface{}, 0, grid.SummaryBlockRows)
	out = append(out, []interface{}{summaryLabelPrefix + dateLabel})
	for _, n := range s.Counts {
		out = append(out, []interface{}{n})
	}
	out = append(out, []interface{}{s.WrongURL}, []interface{}{s.Total()})
	return out
}

// Summarize counts the data rows of the 1-based column col. checkCol may be 0
// when the sheet has no Check URL Target column.
func Summarize(rows [][]interface{}, col, checkCol int) Summary {
	var s Summary
	for _, row := range rows {
		if b, ok := Classify(grid.CellString(row, col)); ok {
			s.Counts[b]++
		}
		if checkCol > 0 && grid.CellString(row, checkCol) == sheets.CheckURLFailed {
			s.WrongURL++
		}
	}
	return s
}

// UpdatePerformance writes the ranking summary of today's dated column into
// the rows above the header.
func (u *Updater) UpdatePerformance(ctx context.Context, spreadsheetID, sheetName string) (Result, error) {
	fail := func(err error) (Result, error) {
		return Result{}, &SheetError{Sheet: sheetName, Op: "update performance", Err: err}
	}

	g, err := u.load(ctx, spreadsheetID, sheetName)
	if err != nil {
		return fail(err)
	}
	dateCol, label, err := u.findDateColumn(g.header)
	if err != nil {
		return fail(err)
	}
	checkCol := grid.FindColumn(g.header, sheets.HeaderCheckURLTarget)
	if checkCol == 0 {
		log.WithField("sheet", sheetName).Warnf("No %q column, wrong URL count will be 0", sheets.HeaderCheckURLTarget)
	}

	err = u.sheets.ClearValues(ctx, spreadsheetID, sheets.ColumnRange(sheetName, dateCol, 1, u.layout.SummaryRows()))
	if err != nil {
		return fail(err)
	}

	rows := u.layout.DataRows(g.values)
	summary := Summarize(rows, dateCol, checkCol)
	err = u.sheets.UpdateValues(ctx, spreadsheetID,
		sheets.ColumnRange(sheetName, dateCol, 1, grid.SummaryBlockRows),
		summary.Column(label),
	)
	if err != nil {
		return fail(err)
	}

	res := Result{
		Sheet:  sheetName,
		Column: grid.ColumnLetter(dateCol),
		Rows:   len(rows),
	}
	log.WithFields(log.Fields{
		"sheet":    sheetName,
		"column":   res.Column,
		"total":    summary.Total(),
		"wrongUrl": summary.WrongURL,
	}).Info("Performance summary written")
	return res, nil
}
