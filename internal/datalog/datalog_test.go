package datalog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// tickingClock advances by one second on every reading.
func tickingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := t
		t = t.Add(time.Second)
		return now
	}
}

func TestRecordUntilEOF(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := &Logger{Source: strings.NewReader("1.5\nfoo\n2.5\n 3.5 \n"), Clock: tickingClock()}
	rec, err := l.Record(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 3}, rec.Times)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, rec.Values)
	assert.Equal(t, 1, rec.Skipped)
}

func TestRecordStopsAfterDuration(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := &Logger{
		Source:   strings.NewReader("1.5\nfoo\n2.5\n3.5\n4.5\n"),
		Clock:    tickingClock(),
		Duration: 2500 * time.Millisecond,
	}
	rec, err := l.Record(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, rec.Times)
	assert.Equal(t, []float64{1.5, 2.5}, rec.Values)
}

func TestRecordCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	pr, pw := io.Pipe()
	l := &Logger{Source: pr}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *Record)
	go func() {
		rec, _ := l.Record(ctx)
		done <- rec
	}()

	_, err := pw.Write([]byte("20.5\n"))
	require.NoError(t, err)
	cancel()
	rec := <-done
	require.NoError(t, pw.Close())
	assert.LessOrEqual(t, len(rec.Values), 1)
}

func TestRecordReleasesOpenSource(t *testing.T) {
	defer goleak.VerifyNone(t)

	// the writer end stays open, as a serial device would
	pr, pw := io.Pipe()
	defer pw.Close()
	l := &Logger{Source: pr}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *Record)
	go func() {
		rec, _ := l.Record(ctx)
		done <- rec
	}()

	_, err := pw.Write([]byte("1.5\n"))
	require.NoError(t, err)
	cancel()
	<-done

	_, err = pw.Write([]byte("2.5\n"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	rec := &Record{Times: []float64{0, 0.5}, Values: []float64{21.5, 22}}
	tp, vp, err := rec.Save(dir, "run1_")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run1_data_time.txt"), tp)

	b, err := os.ReadFile(vp)
	require.NoError(t, err)
	assert.Equal(t, "2.150000000000000000e+01\n2.200000000000000000e+01\n", string(b))

	b, err = os.ReadFile(tp)
	require.NoError(t, err)
	assert.Equal(t, "0.000000000000000000e+00\n5.000000000000000000e-01\n", string(b))
}
