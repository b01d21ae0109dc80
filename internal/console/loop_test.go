package console

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/guess/internal/game"
)

type fakeRecorder struct {
	got []Result
	err error
}

func (f *fakeRecorder) Record(_ context.Context, r Result) error {
	f.got = append(f.got, r)
	return f.err
}

func feedbackLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		switch l {
		case MsgTooSmall, MsgTooBig, MsgWin, MsgInvalid:
			lines = append(lines, l)
		}
	}
	return lines
}

func TestRun_Scenario42(t *testing.T) {
	in := &ScriptedReader{Lines: []string{"10\n", "abc\n", "90\n", "42\n", "7\n"}}
	var out bytes.Buffer

	res, err := NewLoop(game.FixedSource(42), in, &out, Options{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, in.Consumed(), "session must stop after the winning line")
	assert.Equal(t, []string{MsgTooSmall, MsgTooBig, MsgWin}, feedbackLines(out.String()))
	assert.Equal(t, 42, res.Secret)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 1, res.Invalid)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, MsgBanner+"\n"))
	assert.Equal(t, 4, strings.Count(text, MsgPrompt))
	assert.Contains(t, text, "You guessed: 10\n")
	assert.Contains(t, text, "You guessed: 90\n")
	assert.Contains(t, text, "You guessed: 42\n")
	assert.NotContains(t, text, "abc")
	assert.True(t, strings.HasSuffix(text, MsgWin+"\n"))
}

func TestRun_ExactMatchWinsForEverySecret(t *testing.T) {
	for n := game.DefaultMin; n < game.DefaultMax; n++ {
		in := &ScriptedReader{Lines: []string{strings.Repeat(" ", n%3) + strconv.Itoa(n) + "\n"}}
		var out bytes.Buffer
		res, err := NewLoop(game.FixedSource(n), in, &out, Options{}).Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, res.Attempts)
		require.Equal(t, []string{MsgWin}, feedbackLines(out.String()))
	}
}

func TestRun_NonNumericRepromptsSilently(t *testing.T) {
	in := &ScriptedReader{Lines: []string{"hello\n", "\n", "4.2\n", "5\n"}}
	var out bytes.Buffer

	res, err := NewLoop(game.FixedSource(5), in, &out, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Invalid)
	assert.Equal(t, 4, strings.Count(out.String(), MsgPrompt))
	assert.Equal(t, []string{MsgWin}, feedbackLines(out.String()))
}

func TestRun_ExplainInvalid(t *testing.T) {
	in := &ScriptedReader{Lines: []string{"nope\n", "5\n"}}
	var out bytes.Buffer

	_, err := NewLoop(game.FixedSource(5), in, &out, Options{ExplainInvalid: true}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{MsgInvalid, MsgWin}, feedbackLines(out.String()))
}

func TestRun_InputClosedIsFatal(t *testing.T) {
	in := &ScriptedReader{Lines: []string{"10\n", "abc\n"}}
	var out bytes.Buffer

	res, err := NewLoop(game.FixedSource(42), in, &out, Options{}).Run(context.Background())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestRun_ReadErrorIsFatal(t *testing.T) {
	boom := errors.New("boom")
	in := NewLineReader(iotest.ErrReader(boom))
	var out bytes.Buffer

	_, err := NewLoop(game.FixedSource(42), in, &out, Options{}).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRun_RecorderReceivesResult(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	in := &ScriptedReader{Lines: []string{"50\n", "25\n"}}
	var out bytes.Buffer

	res, err := NewLoop(game.FixedSource(25), in, &out, Options{Recorder: rec}).Run(context.Background())
	require.NoError(t, err, "recorder failures are not fatal")
	require.Len(t, rec.got, 1)
	assert.Equal(t, *res, rec.got[0])
	assert.Equal(t, 2, rec.got[0].Attempts)
}

func TestRun_InvalidRange(t *testing.T) {
	_, err := NewLoop(game.CryptoSource{}, &ScriptedReader{}, &bytes.Buffer{}, Options{Min: 5, Max: 5}).Run(context.Background())
	assert.ErrorIs(t, err, game.ErrInvalidRange)
}

func TestLineReader(t *testing.T) {
	r := NewLineReader(strings.NewReader("12\n  34  \nlast"))

	for _, want := range []string{"12\n", "  34  \n", "last"} {
		got, err := r.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := r.ReadLine()
	assert.ErrorIs(t, err, ErrInputClosed)
}
