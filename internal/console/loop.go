// Package console runs an interactive guessing session over line-oriented I/O.
//
// The loop prints a banner, then repeatedly prompts, reads one line, and
// applies it to a game.Game:
//
//	AwaitingInput --parse failure--> AwaitingInput   (silent retry)
//	AwaitingInput --parsed--> Evaluating
//	Evaluating --less/greater--> AwaitingInput
//	Evaluating --equal--> Won (terminal)
//
// A failing read is fatal: Run returns the error instead of looping on
// unreadable input.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/guess/internal/game"
)

const (
	MsgBanner   = "Guess the number!"
	MsgPrompt   = "Please input your guess."
	MsgTooSmall = game.FeedbackTooSmall
	MsgTooBig   = game.FeedbackTooBig
	MsgWin      = game.FeedbackWin
	MsgInvalid  = "Please type a number!"
)

// Result summarises a won session.
type Result struct {
	GameID   string
	Secret   int
	Attempts int
	Invalid  int // lines discarded because they did not parse
	Elapsed  time.Duration
}

// Recorder persists finished sessions. Failures are logged, never fatal.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// Options tune a Loop. The zero value gives the silent-retry behaviour.
type Options struct {
	Min, Max       int  // secret range; zero values fall back to game defaults
	ExplainInvalid bool // print MsgInvalid on malformed input
	Recorder       Recorder
	Logger         *zerolog.Logger
}

// Loop drives one session from secret generation to a win.
type Loop struct {
	src  game.SecretSource
	in   LineReader
	out  io.Writer
	opts Options
	log  zerolog.Logger
	now  func() time.Time
}

// NewLoop constructs a Loop reading from in and writing feedback to out.
func NewLoop(src game.SecretSource, in LineReader, out io.Writer, opts Options) *Loop {
	if opts.Min == 0 && opts.Max == 0 {
		opts.Min, opts.Max = game.DefaultMin, game.DefaultMax
	}
	l := &Loop{src: src, in: in, out: out, opts: opts, log: zerolog.Nop(), now: time.Now}
	if opts.Logger != nil {
		l.log = *opts.Logger
	}
	return l
}

// Run plays one session. ctx is only handed to the Recorder; reads block
// until a line is available.
func (l *Loop) Run(ctx context.Context) (*Result, error) {
	g, err := game.New(l.src, l.opts.Min, l.opts.Max)
	if err != nil {
		return nil, err
	}
	start := l.now()
	log := l.log.With().Str("gameId", g.ID).Logger()
	log.Debug().Int("min", g.Min).Int("max", g.Max).Msg("session started")

	l.println(MsgBanner)
	invalid := 0
	for {
		l.println(MsgPrompt)
		line, err := l.in.ReadLine()
		if err != nil {
			log.Error().Err(err).Int("attempts", g.Attempts).Msg("input failed")
			return nil, fmt.Errorf("read guess: %w", err)
		}

		out, state, err := g.ApplyGuess(line)
		if errors.Is(err, game.ErrInvalidGuess) {
			invalid++
			log.Debug().Err(err).Msg("discarding input")
			if l.opts.ExplainInvalid {
				l.println(MsgInvalid)
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		l.printf("You guessed: %d\n", g.Guesses[len(g.Guesses)-1])
		l.println(out.Feedback())
		if state != game.StateWon {
			continue
		}

		res := &Result{
			GameID:   g.ID,
			Secret:   g.Secret,
			Attempts: g.Attempts,
			Invalid:  invalid,
			Elapsed:  l.now().Sub(start),
		}
		log.Info().Int("attempts", res.Attempts).Int("invalid", res.Invalid).Dur("elapsed", res.Elapsed).Msg("session won")
		if l.opts.Recorder != nil {
			if err := l.opts.Recorder.Record(ctx, *res); err != nil {
				log.Warn().Err(err).Msg("record result")
			}
		}
		return res, nil
	}
}

func (l *Loop) println(s string) { _, _ = fmt.Fprintln(l.out, s) }

func (l *Loop) printf(format string, args ...any) { _, _ = fmt.Fprintf(l.out, format, args...) }
