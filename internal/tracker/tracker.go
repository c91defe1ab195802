package tracker

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"klsetracker/internal/mailer"
	"klsetracker/internal/marketday"
	"klsetracker/internal/provider"
	"klsetracker/internal/quote"
	"klsetracker/internal/report"
)

//go:generate mockgen -package=tracker_test -destination=mock_source_test.go klsetracker/internal/provider Source
//go:generate mockgen -package=tracker_test -destination=mock_mailer_test.go klsetracker/internal/mailer Mailer

// Store persists a record set and returns the file path.
type Store interface {
	Write(set *quote.Set, now time.Time) (string, error)
}

// Options wires a Tracker. Mailer may be nil when email is disabled.
type Options struct {
	Symbols []quote.SymbolEntry
	Source  provider.Source
	Store   Store
	Mailer  mailer.Mailer
	Log     *zap.SugaredLogger
	// Out receives the rendered console report; defaults to stdout.
	Out io.Writer
	// Now overrides the clock for tests.
	Now func() time.Time
	// FetchRetries is the number of retries after a failed per-symbol
	// fetch, on top of the initial attempt.
	FetchRetries uint64
}

// Tracker runs one report pass: market-day gate, sequential fetch,
// render, persist, notify. A run never fails as a process: every
// component error is logged at its boundary and the run carries on or
// stops early, per phase.
type Tracker struct {
	opts Options
}

func New(opts Options) *Tracker {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	return &Tracker{opts: opts}
}

// Run executes one pass. It returns nil on every documented path,
// including "market closed", "no data retrieved" and "email failed";
// the caller's exit status stays zero for all of them.
func (t *Tracker) Run(ctx context.Context) error {
	log := t.opts.Log.With("run_id", uuid.New().String())
	now := t.opts.Now()

	log.Infow("starting Malaysian stock tracker",
		"at", now.Format("2006-01-02 15:04:05"),
		"symbols", len(t.opts.Symbols),
		"source", t.opts.Source.Name(),
	)

	if !marketday.IsMarketDay(now) {
		log.Infow("market is closed, skipping run", "weekday", now.Weekday().String())
		return nil
	}

	set := t.fetchAll(ctx, log, now)
	if set.Len() == 0 {
		log.Errorw("failed to retrieve any stock data, nothing to report")
		return nil
	}

	fmt.Fprint(t.opts.Out, report.Render(set, now))

	path, err := t.opts.Store.Write(set, now)
	if err != nil {
		log.Errorw("saving report failed", "error", err)
		return nil
	}
	log.Infow("report saved", "path", path, "records", set.Len())

	if t.opts.Mailer == nil {
		log.Infow("email disabled, report kept on disk", "path", path)
		return nil
	}
	if err := t.opts.Mailer.Send(ctx, report.Summarize(set), path, now); err != nil {
		log.Errorw("sending email failed, report kept on disk", "error", err, "path", path)
		return nil
	}
	log.Infow("report emailed")
	return nil
}

// fetchAll walks the symbol list in order. Per-symbol failures and
// symbols without resolvable prices are logged and skipped; they never
// halt the loop.
func (t *Tracker) fetchAll(ctx context.Context, log *zap.SugaredLogger, now time.Time) *quote.Set {
	set := quote.NewSet()
	for _, entry := range t.opts.Symbols {
		if ctx.Err() != nil {
			log.Warnw("fetch loop canceled", "error", ctx.Err())
			break
		}
		log.Infow("fetching", "company", entry.Name, "symbol", entry.Ticker)

		raw, err := t.fetchOne(ctx, entry.Ticker)
		if err != nil {
			log.Warnw("fetch failed", "company", entry.Name, "symbol", entry.Ticker, "error", err)
			continue
		}
		rec, ok := quote.Normalize(entry, raw, now)
		if !ok {
			log.Warnw("no price data, might be delisted or inactive", "company", entry.Name, "symbol", entry.Ticker)
			continue
		}
		log.Infow("fetched",
			"company", entry.Name,
			"prev_close", rec.PrevClose.StringFixed(3),
			"last_done", rec.LastDone.StringFixed(3),
		)
		set.Add(rec)
	}
	return set
}

func (t *Tracker) fetchOne(ctx context.Context, ticker string) (quote.Raw, error) {
	var raw quote.Raw
	op := func() error {
		var err error
		raw, err = t.opts.Source.Quote(ctx, ticker)
		return err
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(newFetchBackoff(), t.opts.FetchRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return quote.Raw{}, err
	}
	return raw, nil
}

func newFetchBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.1
	return b
}
