// Package tcx reads Garmin Training Center XML activity files.
//
// Each lap becomes one interval, labelled by its zero-based position in the
// file. Trackpoint times are made relative to the first trackpoint, distance
// is converted to kilometres and the TPX speed extension to km/h.
package tcx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"ridefile/internal/ride"
)

const (
	// Suffix is the file suffix handled by this reader.
	Suffix = "tcx"

	defaultDevice = "Garmin TCX"
	mpsToKPH      = 3.6
)

type trainingCenterDatabase struct {
	XMLName    xml.Name   `xml:"TrainingCenterDatabase"`
	Activities []activity `xml:"Activities>Activity"`
}

type activity struct {
	Sport   string  `xml:"Sport,attr"`
	ID      string  `xml:"Id"`
	Laps    []lap   `xml:"Lap"`
	Creator creator `xml:"Creator"`
}

type creator struct {
	Name string `xml:"Name"`
}

type lap struct {
	StartTime string       `xml:"StartTime,attr"`
	Points    []trackpoint `xml:"Track>Trackpoint"`
}

type trackpoint struct {
	Time      string   `xml:"Time"`
	Distance  *float64 `xml:"DistanceMeters"`
	HeartRate *float64 `xml:"HeartRateBpm>Value"`
	Cadence   *float64 `xml:"Cadence"`
	Speed     *float64 `xml:"Extensions>TPX>Speed"`
	Watts     *float64 `xml:"Extensions>TPX>Watts"`
}

// Reader decodes TCX files. Only the first activity in a file is read.
type Reader struct{}

// NewReader returns a TCX reader.
func NewReader() *Reader { return &Reader{} }

// ReadRide implements rideformat.Reader.
func (r *Reader) ReadRide(src io.Reader) (*ride.Recording, []string) {
	var db trainingCenterDatabase
	if err := xml.NewDecoder(src).Decode(&db); err != nil {
		return nil, []string{fmt.Sprintf("parse document: %v", err)}
	}
	if len(db.Activities) == 0 {
		return nil, []string{"no activities found"}
	}
	act := db.Activities[0]

	device := strings.TrimSpace(act.Creator.Name)
	if device == "" {
		device = defaultDevice
	}

	var (
		errs  []string
		rec   *ride.Recording
		start time.Time
		km    float64
	)
	for lapIdx, l := range act.Laps {
		for ptIdx, pt := range l.Points {
			where := fmt.Sprintf("lap %d trackpoint %d", lapIdx+1, ptIdx+1)
			ts, err := time.Parse(time.RFC3339, strings.TrimSpace(pt.Time))
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: time %q is not RFC3339", where, pt.Time))
				continue
			}
			if rec == nil {
				start = ts
				rec = ride.New(start, device, 0)
			}
			if pt.Distance != nil {
				km = *pt.Distance / 1000
			}
			rec.Append(ride.Sample{
				Secs:     ts.Sub(start).Seconds(),
				Cad:      deref(pt.Cadence),
				HR:       deref(pt.HeartRate),
				KM:       km,
				KPH:      deref(pt.Speed) * mpsToKPH,
				Watts:    deref(pt.Watts),
				Interval: lapIdx,
			})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if rec == nil {
		return nil, []string{"activity has no trackpoints"}
	}
	if err := rec.Validate(); err != nil {
		return nil, []string{err.Error()}
	}
	if rec.Len() >= 2 {
		rec.SamplingPeriod = rec.Samples[1].Secs - rec.Samples[0].Secs
	}
	return rec, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
