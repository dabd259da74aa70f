package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"ridefile/internal/ride"
)

// Write emits rec in the format ReadRide accepts. It is used by the export
// command to hand rides to spreadsheet tools.
func Write(w io.Writer, rec *ride.Recording) error {
	var buf bytes.Buffer
	if !rec.StartTime.IsZero() {
		fmt.Fprintf(&buf, "# start: %s\n", rec.StartTime.Format(time.RFC3339))
	}
	if rec.DeviceType != "" {
		fmt.Fprintf(&buf, "# device: %s\n", rec.DeviceType)
	}
	fmt.Fprintf(&buf, "# sampling_period: %s\n", strconv.FormatFloat(rec.SamplingPeriod, 'f', -1, 64))

	cw := csv.NewWriter(&buf)
	_ = cw.Write(columns)
	for _, s := range rec.Samples {
		_ = cw.Write([]string{
			strconv.FormatFloat(s.Secs, 'f', -1, 64),
			strconv.FormatFloat(s.Cad, 'f', -1, 64),
			strconv.FormatFloat(s.HR, 'f', -1, 64),
			strconv.FormatFloat(s.KM, 'f', -1, 64),
			strconv.FormatFloat(s.KPH, 'f', -1, 64),
			strconv.FormatFloat(s.Watts, 'f', -1, 64),
			strconv.FormatFloat(s.Nm, 'f', -1, 64),
			strconv.Itoa(s.Interval),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
