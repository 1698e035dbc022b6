package updater

import (
	"errors"
	"fmt"

	"github.com/chaunnm/update-ranking-daily/pkg/sheets"
)

var (
	ErrHeaderRowMissing  = errors.New("header row missing")
	ErrColumnMissing     = errors.New("column missing")
	ErrDateColumnMissing = errors.New("date column missing")
)

// SheetError ties a failure to the sheet and step that produced it.
type SheetError struct {
	Sheet string
	Op    string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether err is something the caller can fix, such as a
// wrong sheet name or running the performance update before the ranking one.
func IsUserError(err error) bool {
	return errors.Is(err, sheets.ErrSheetNotFound) ||
		errors.Is(err, ErrHeaderRowMissing) ||
		errors.Is(err, ErrColumnMissing) ||
		errors.Is(err, ErrDateColumnMissing)
}

// skippable errors leave the sheet untouched and let the batch continue.
func skippable(err error) bool {
	return errors.Is(err, ErrHeaderRowMissing) || errors.Is(err, ErrColumnMissing)
}
