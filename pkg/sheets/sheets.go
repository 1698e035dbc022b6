package sheets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const maxBackoff = 60 * time.Second

// Credentials selects how the service account authenticates. JSON wins over
// File when both are set.
type Credentials struct {
	File string
	JSON []byte
}

type Options struct {
	// RequestsPerMinute caps calls to the API. 0 disables the limiter.
	RequestsPerMinute int
	// MaxRetries is how many times a rate limited call is retried.
	MaxRetries int
}

// Client talks to the Google Sheets API. It is built once per process and is
// safe for concurrent use.
type Client struct {
	service     *sheets.Service
	limiter     *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
}

// NewClient authenticates with the given credentials and returns a Client.
func NewClient(ctx context.Context, creds Credentials, opts Options) (*Client, error) {
	clientOpts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case len(creds.JSON) > 0:
		clientOpts = append(clientOpts, option.WithCredentialsJSON(creds.JSON))
	case creds.File != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(creds.File))
	default:
		return nil, errors.New("no Google credentials configured")
	}
	srv, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}
	return newClient(srv, opts), nil
}

func newClient(srv *sheets.Service, opts Options) *Client {
	c := &Client{
		service:     srv,
		maxRetries:  opts.MaxRetries,
		baseBackoff: time.Second,
	}
	if opts.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), min(opts.RequestsPerMinute, 10))
	}
	return c
}

func (c *Client) GetSheet(ctx context.Context, spreadsheetID, sheetName string) (*SheetInfo, error) {
	var ss *sheets.Spreadsheet
	err := c.do(ctx, "get spreadsheet", func() error {
		var err error
		ss, err = c.service.Spreadsheets.Get(spreadsheetID).
			Fields("sheets.properties").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, sh := range ss.Sheets {
		p := sh.Properties
		if p == nil || p.Title != sheetName {
			continue
		}
		info := &SheetInfo{ID: p.SheetId, Title: p.Title}
		if p.GridProperties != nil {
			info.RowCount = p.GridProperties.RowCount
			info.ColumnCount = p.GridProperties.ColumnCount
		}
		return info, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
}

func (c *Client) GetValues(ctx context.Context, spreadsheetID, a1Range string) ([][]interface{}, error) {
	var resp *sheets.ValueRange
	err := c.do(ctx, "read values", func() error {
		var err error
		resp, err = c.service.Spreadsheets.Values.Get(spreadsheetID, a1Range).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, a1Range string, values [][]interface{}) error {
	return c.do(ctx, "update values", func() error {
		_, err := c.service.Spreadsheets.Values.Update(
			spreadsheetID,
			a1Range,
			&sheets.ValueRange{Values: values},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		return err
	})
}

func (c *Client) ClearValues(ctx context.Context, spreadsheetID, a1Range string) error {
	return c.do(ctx, "clear values", func() error {
		_, err := c.service.Spreadsheets.Values.Clear(
			spreadsheetID,
			a1Range,
			&sheets.ClearValuesRequest{},
		).Context(ctx).Do()
		return err
	})
}

func (c *Client) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	if len(requests) == 0 {
		return nil
	}
	return c.do(ctx, "batch update", func() error {
		_, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		return err
	})
}

// do waits for the limiter, runs call and retries it with exponential
// backoff while the API reports rate limiting.
func (c *Client) do(ctx context.Context, what string, call func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if werr := c.limiter.Wait(ctx); werr != nil {
				return fmt.Errorf("%s: %w", what, werr)
			}
		}
		err = call()
		if err == nil {
			return nil
		}
		if !isRateLimited(err) || attempt >= c.maxRetries {
			break
		}
		backoff := time.Duration(math.Pow(2, float64(attempt))) * c.baseBackoff
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		log.Warnf("Rate limited by Google Sheets API during %s, retrying in %v...", what, backoff)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", what, ctx.Err())
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

func isRateLimited(err error) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}
	if gErr.Code == http.StatusTooManyRequests {
		return true
	}
	if gErr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range gErr.Errors {
		if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
			return true
		}
	}
	return false
}
