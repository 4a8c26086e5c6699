// Package datalog records timestamped readings from a line oriented source
// such as a microcontroller on a serial port.
package datalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Record is the outcome of one acquisition. Times are seconds since the
// first line was read.
type Record struct {
	Times   []float64
	Values  []float64
	Skipped int
}

type Logger struct {
	Source   io.Reader
	Clock    func() time.Time
	Duration time.Duration
	Log      *zap.Logger
}

func (l *Logger) now() time.Time {
	if l.Clock == nil {
		return time.Now()
	}
	return l.Clock()
}

func (l *Logger) logger() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}

type line struct {
	text string
	at   time.Time
}

// Record reads until Duration has elapsed since the first line, the source
// is exhausted or ctx is done. Lines that do not parse as a number are
// counted and skipped; a device often sends partial lines while it syncs.
//
// When Record stops before the source is exhausted it closes Source if it is
// an io.Closer, which releases the reader blocked on a device that stays
// open. Other sources must be closed by the caller.
func (l *Logger) Record(ctx context.Context) (*Record, error) {
	log := l.logger()
	lines := make(chan line)
	errc := make(chan error, 1)
	stop := make(chan struct{})
	exhausted := false
	defer func() {
		close(stop)
		if c, ok := l.Source.(io.Closer); ok && !exhausted {
			if err := c.Close(); err != nil {
				log.Debug("closing source", zap.Error(err))
			}
		}
	}()

	go func() {
		sc := bufio.NewScanner(l.Source)
		for sc.Scan() {
			select {
			case lines <- line{text: sc.Text(), at: l.now()}:
			case <-stop:
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()

	rec := &Record{}
	var t0 time.Time
	var deadline <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			log.Info("recording cancelled", zap.Int("points", len(rec.Values)))
			return rec, nil
		case <-deadline:
			log.Info("recording finished", zap.Int("points", len(rec.Values)), zap.Int("skipped", rec.Skipped))
			return rec, nil
		case ln, ok := <-lines:
			if !ok {
				exhausted = true
				if err := <-errc; err != nil {
					return rec, fmt.Errorf("read source: %w", err)
				}
				log.Info("source closed", zap.Int("points", len(rec.Values)), zap.Int("skipped", rec.Skipped))
				return rec, nil
			}
			if t0.IsZero() {
				t0 = ln.at
				if l.Duration > 0 {
					timer := time.NewTimer(l.Duration)
					defer timer.Stop()
					deadline = timer.C
				}
			}
			elapsed := ln.at.Sub(t0)
			if l.Duration > 0 && elapsed > l.Duration {
				log.Info("recording finished", zap.Int("points", len(rec.Values)), zap.Int("skipped", rec.Skipped))
				return rec, nil
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(ln.text), 64)
			if err != nil {
				rec.Skipped++
				log.Debug("skipping line", zap.String("line", ln.text), zap.Float64("t", elapsed.Seconds()))
				continue
			}
			rec.Times = append(rec.Times, elapsed.Seconds())
			rec.Values = append(rec.Values, v)
		}
	}
}

// Save writes <prefix>data_time.txt and <prefix>data_temperature.txt in dir
// with one value per line and returns their paths.
func (r *Record) Save(dir, prefix string) (timePath, valuePath string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", err
	}
	timePath = filepath.Join(dir, prefix+"data_time.txt")
	valuePath = filepath.Join(dir, prefix+"data_temperature.txt")
	if err := writeColumn(timePath, r.Times); err != nil {
		return "", "", err
	}
	if err := writeColumn(valuePath, r.Values); err != nil {
		return "", "", err
	}
	return timePath, valuePath, nil
}

func writeColumn(path string, values []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	w := bufio.NewWriter(f)
	for _, v := range values {
		if _, err := fmt.Fprintf(w, "%.18e\n", v); err != nil {
			return err
		}
	}
	return w.Flush()
}
