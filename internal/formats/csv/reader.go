// Package csv reads flat comma-separated ride exports.
//
// The first non-directive row is a header naming the columns. Recognized
// columns are secs (required), cad, hr, km, kph, watts, nm and interval;
// unknown columns are ignored and header names are case-insensitive.
// Leading lines beginning with '#' carry metadata:
//
//	# start: 2008-03-01T09:30:05Z
//	# device: SRM
//	# sampling_period: 1.26
//	secs,cad,hr,km,kph,watts,nm,interval
//	0.00,90,140,0.000,32.4,250,26.5,1
package csv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ridefile/internal/ride"
)

const (
	// Suffix is the file suffix handled by this reader.
	Suffix = "csv"

	defaultDevice = "CSV"
)

var columns = []string{"secs", "cad", "hr", "km", "kph", "watts", "nm", "interval"}

// Reader decodes CSV ride exports.
type Reader struct{}

// NewReader returns a CSV reader.
func NewReader() *Reader { return &Reader{} }

type header struct {
	start          time.Time
	device         string
	samplingPeriod float64
	hasPeriod      bool
	lines          int
}

// ReadRide implements rideformat.Reader. Every malformed row is reported with
// its line number; reading continues past bad rows so all problems surface
// in one pass.
func (r *Reader) ReadRide(src io.Reader) (*ride.Recording, []string) {
	buffered := bufio.NewReader(src)
	meta, errs := readDirectives(buffered)

	cr := csv.NewReader(buffered)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	names, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, append(errs, "missing header row")
		}
		return nil, append(errs, fmt.Sprintf("header: %v", err))
	}
	index := make(map[string]int, len(names))
	for i, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := index[key]; dup {
			errs = append(errs, fmt.Sprintf("line %d: duplicate column %q", meta.lines+1, name))
			continue
		}
		index[key] = i
	}
	if _, ok := index["secs"]; !ok {
		return nil, append(errs, fmt.Sprintf("line %d: header has no secs column", meta.lines+1))
	}

	rec := ride.New(meta.start, meta.device, meta.samplingPeriod)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				errs = append(errs, fmt.Sprintf("line %d: %v", perr.Line+meta.lines, perr.Err))
				continue
			}
			errs = append(errs, fmt.Sprintf("read: %v", err))
			break
		}
		line, _ := cr.FieldPos(0)
		line += meta.lines
		sample, rowErrs := parseRow(row, index)
		for _, e := range rowErrs {
			errs = append(errs, fmt.Sprintf("line %d: %s", line, e))
		}
		if len(rowErrs) == 0 {
			rec.Append(sample)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if err := rec.Validate(); err != nil {
		return nil, []string{err.Error()}
	}
	if !meta.hasPeriod && rec.Len() >= 2 {
		rec.SamplingPeriod = rec.Samples[1].Secs - rec.Samples[0].Secs
	}
	return rec, nil
}

func readDirectives(br *bufio.Reader) (header, []string) {
	meta := header{device: defaultDevice}
	var errs []string
	for {
		peek, err := br.Peek(1)
		if err != nil || len(peek) == 0 || peek[0] != '#' {
			return meta, errs
		}
		line, err := br.ReadString('\n')
		meta.lines++
		applyDirective(&meta, strings.TrimSpace(strings.TrimPrefix(line, "#")), &errs)
		if err != nil {
			return meta, errs
		}
	}
}

func applyDirective(meta *header, directive string, errs *[]string) {
	key, value, ok := strings.Cut(directive, ":")
	if !ok {
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	switch key {
	case "start":
		ts, err := time.Parse(time.RFC3339, value)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("line %d: start %q is not RFC3339", meta.lines, value))
			return
		}
		meta.start = ts
	case "device":
		if value != "" {
			meta.device = value
		}
	case "sampling_period":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 {
			*errs = append(*errs, fmt.Sprintf("line %d: sampling_period %q is not a non-negative number", meta.lines, value))
			return
		}
		meta.samplingPeriod = v
		meta.hasPeriod = true
	}
}

func parseRow(row []string, index map[string]int) (ride.Sample, []string) {
	var (
		s    ride.Sample
		errs []string
	)
	values := make(map[string]float64, len(columns))
	for _, col := range columns {
		i, ok := index[col]
		if !ok || i >= len(row) || strings.TrimSpace(row[i]) == "" {
			if col == "secs" {
				errs = append(errs, "secs: missing")
			}
			continue
		}
		raw := strings.TrimSpace(row[i])
		if col == "interval" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				errs = append(errs, fmt.Sprintf("interval: %q is not an integer", raw))
				continue
			}
			s.Interval = n
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not a number", col, raw))
			continue
		}
		values[col] = v
	}
	s.Secs = values["secs"]
	s.Cad = values["cad"]
	s.HR = values["hr"]
	s.KM = values["km"]
	s.KPH = values["kph"]
	s.Watts = values["watts"]
	s.Nm = values["nm"]
	return s, errs
}
