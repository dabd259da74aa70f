// Package gc reads canonical ride documents back into recordings.
package gc

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ridefile/internal/gcxml"
	"ridefile/internal/ride"
)

// Suffix is the file suffix of canonical ride documents.
const Suffix = "gc"

type document struct {
	XMLName   xml.Name   `xml:"ride"`
	Start     dateAttr   `xml:"start"`
	Device    nameAttr   `xml:"device_type"`
	Period    secsAttr   `xml:"sampling_period"`
	Intervals []interval `xml:"intervals>interval"`
	Samples   []sample   `xml:"samples>sample"`
}

type dateAttr struct {
	Date string `xml:"date,attr"`
}

type nameAttr struct {
	Name string `xml:"name,attr"`
}

type secsAttr struct {
	Secs string `xml:"secs,attr"`
}

type interval struct {
	Name  string `xml:"name,attr"`
	Begin string `xml:"begin_secs,attr"`
	End   string `xml:"end_secs,attr"`
}

type sample struct {
	Secs  string `xml:"secs,attr"`
	Cad   string `xml:"cad,attr"`
	HR    string `xml:"hr,attr"`
	KM    string `xml:"km,attr"`
	KPH   string `xml:"kph,attr"`
	Watts string `xml:"watts,attr"`
	Nm    string `xml:"nm,attr"`
}

// Reader decodes canonical documents. Start dates carry no zone and are read
// in Location, which defaults to the local zone.
type Reader struct {
	Location *time.Location
}

// NewReader returns a reader using the local time zone.
func NewReader() *Reader {
	return &Reader{Location: time.Local}
}

// ReadRide implements rideformat.Reader.
func (r *Reader) ReadRide(src io.Reader) (*ride.Recording, []string) {
	var doc document
	if err := xml.NewDecoder(src).Decode(&doc); err != nil {
		return nil, []string{fmt.Sprintf("parse document: %v", err)}
	}

	var errs []string
	p := parser{errs: &errs}

	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(gcxml.DateLayout, strings.TrimSpace(doc.Start.Date), loc)
	if err != nil {
		errs = append(errs, fmt.Sprintf("start date %q: expected yyyy/MM/dd hh:mm:ss", doc.Start.Date))
	}

	rec := ride.New(start, doc.Device.Name, p.float("sampling_period secs", doc.Period.Secs, true))

	bounds := make([]bound, 0, len(doc.Intervals))
	for i, iv := range doc.Intervals {
		where := fmt.Sprintf("interval %d", i+1)
		label, err := strconv.Atoi(strings.TrimSpace(iv.Name))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: name %q is not an integer", where, iv.Name))
			continue
		}
		bounds = append(bounds, bound{
			label: label,
			begin: p.float(where+" begin_secs", iv.Begin, true),
			end:   p.float(where+" end_secs", iv.End, true),
		})
	}

	samples := make([]ride.Sample, 0, len(doc.Samples))
	for i, s := range doc.Samples {
		where := fmt.Sprintf("sample %d", i+1)
		smp := ride.Sample{
			Secs:  p.float(where+" secs", s.Secs, true),
			Cad:   p.float(where+" cad", s.Cad, false),
			HR:    p.float(where+" hr", s.HR, false),
			KM:    p.float(where+" km", s.KM, false),
			KPH:   p.float(where+" kph", s.KPH, false),
			Watts: p.float(where+" watts", s.Watts, false),
			Nm:    p.float(where+" nm", s.Nm, false),
		}
		samples = append(samples, smp)
	}
	for i, label := range assignLabels(bounds, samples) {
		samples[i].Interval = label
		rec.Append(samples[i])
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if err := rec.Validate(); err != nil {
		return nil, []string{err.Error()}
	}
	return rec, nil
}

type bound struct {
	label      int
	begin, end float64
}

// assignLabels walks the samples alongside the intervals. Intervals written
// by gcxml follow sample order and each covers one contiguous run, so a group
// of samples sharing a time covered by several intervals is split from the
// back: the last sample opens the last interval, one sample goes to each
// interval in between, and the rest stay with the first. That rebuilds the
// same boundaries on the next write. Samples outside every interval get 0.
func assignLabels(bounds []bound, samples []ride.Sample) []int {
	labels := make([]int, len(samples))
	if !boundsOrdered(bounds) {
		for i, s := range samples {
			labels[i] = labelFor(bounds, s.Secs)
		}
		return labels
	}
	cur := 0
	for start := 0; start < len(samples); {
		secs := samples[start].Secs
		end := start + 1
		for end < len(samples) && samples[end].Secs == secs {
			end++
		}
		for cur < len(bounds) && bounds[cur].end < secs {
			cur++
		}
		if cur < len(bounds) && bounds[cur].begin <= secs {
			last := cur
			for last+1 < len(bounds) && bounds[last+1].begin <= secs && secs <= bounds[last+1].end {
				last++
			}
			k, n := end-start, last-cur+1
			for m := 0; m < k; m++ {
				labels[start+m] = bounds[cur+max(0, m-k+n)].label
			}
			cur = last
		}
		start = end
	}
	return labels
}

func boundsOrdered(bounds []bound) bool {
	for i := 1; i < len(bounds); i++ {
		if bounds[i].begin < bounds[i-1].begin || bounds[i].end < bounds[i-1].end {
			return false
		}
	}
	return true
}

// labelFor returns the label of the last interval covering secs. Used for
// hand-written documents whose intervals are out of order.
func labelFor(bounds []bound, secs float64) int {
	label := 0
	for _, b := range bounds {
		if secs >= b.begin && secs <= b.end {
			label = b.label
		}
	}
	return label
}

type parser struct {
	errs *[]string
}

func (p parser) float(field, raw string, required bool) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			*p.errs = append(*p.errs, fmt.Sprintf("%s: missing", field))
		}
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Sprintf("%s: %q is not a number", field, raw))
		return 0
	}
	return v
}
