// Package gcxml writes recordings in the canonical ride document format.
//
// The document layout and numeric precision are consumed by other tools and
// must stay byte-stable:
//
//	<!DOCTYPE GoldenCheetah 1.0>
//	<ride>
//	    <start date="2008/03/01 09:30:00"/>
//	    <device_type name="SRM"/>
//	    <sampling_period secs="1.260"/>
//	    <intervals>
//	        <interval name="1" begin_secs="0.00" end_secs="5.00"/>
//	    </intervals>
//	    <samples>
//	        <sample secs="0.00" cad="90" hr="140" km="0.000" kph="32.4" watts="250" nm="26.5"/>
//	    </samples>
//	</ride>
//
// The intervals element is omitted when the recording has no samples. The nm
// attribute appears on every sample when any sample has positive torque and on
// none otherwise.
package gcxml

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"ridefile/internal/fileutil"
	"ridefile/internal/observability"
	"ridefile/internal/ride"
	"ridefile/internal/segment"
)

const (
	DocType    = "GoldenCheetah 1.0"
	DateLayout = "2006/01/02 15:04:05"
	indentUnit = "    "
)

// Write serializes rec to w. The recording is validated first; a write
// failure is returned as-is and leaves w holding a partial document.
func Write(w io.Writer, rec *ride.Recording) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	ew := &errWriter{w: bufio.NewWriter(w)}
	ew.raw("<!DOCTYPE " + DocType + ">\n")
	ew.raw("<ride>\n")

	ew.element(1, "start", attr{"date", rec.StartTime.Format(DateLayout)})
	ew.element(1, "device_type", attr{"name", rec.DeviceType})
	ew.element(1, "sampling_period", attr{"secs", fixed(rec.SamplingPeriod, 3)})

	if boundaries := segment.Boundaries(rec.Samples); len(boundaries) > 0 {
		ew.open(1, "intervals")
		for _, b := range boundaries {
			ew.element(2, "interval",
				attr{"name", strconv.Itoa(b.Label)},
				attr{"begin_secs", fixed(b.BeginSecs, 2)},
				attr{"end_secs", fixed(b.EndSecs, 2)},
			)
		}
		ew.close(1, "intervals")
	}

	if rec.Len() == 0 {
		ew.element(1, "samples")
	} else {
		writeSamples(ew, rec)
	}
	ew.raw("</ride>\n")

	if ew.err != nil {
		return ew.err
	}
	if err := ew.w.Flush(); err != nil {
		return err
	}
	observability.RecordDocumentWritten(len(rec.Samples))
	return nil
}

func writeSamples(ew *errWriter, rec *ride.Recording) {
	hasTorque := rec.HasTorque()
	ew.open(1, "samples")
	attrs := make([]attr, 0, 7)
	for _, s := range rec.Samples {
		attrs = append(attrs[:0],
			attr{"secs", fixed(s.Secs, 2)},
			attr{"cad", fixed(s.Cad, 0)},
			attr{"hr", fixed(s.HR, 0)},
			attr{"km", fixed(s.KM, 3)},
			attr{"kph", fixed(s.KPH, 1)},
			attr{"watts", strconv.FormatFloat(s.Watts, 'f', -1, 64)},
		)
		if hasTorque {
			attrs = append(attrs, attr{"nm", fixed(torque(s), 1)})
		}
		ew.element(2, "sample", attrs...)
	}
	ew.close(1, "samples")
}

// Marshal returns the canonical document for rec.
func Marshal(rec *ride.Recording) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes rec to path, replacing any existing file only once the
// full document has been written.
func WriteFile(path string, rec *ride.Recording) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Write(w, rec)
	})
}

// torque is suppressed to zero when the sample produced no power.
func torque(s ride.Sample) float64 {
	if s.Watts > 0 {
		return s.Nm
	}
	return 0
}

func fixed(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

type attr struct {
	name  string
	value string
}

// errWriter keeps the first write error and turns later writes into no-ops.
type errWriter struct {
	w   *bufio.Writer
	err error
}

func (ew *errWriter) raw(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = ew.w.WriteString(s)
}

func (ew *errWriter) indent(depth int) {
	for i := 0; i < depth; i++ {
		ew.raw(indentUnit)
	}
}

func (ew *errWriter) open(depth int, name string) {
	ew.indent(depth)
	ew.raw("<" + name + ">\n")
}

func (ew *errWriter) close(depth int, name string) {
	ew.indent(depth)
	ew.raw("</" + name + ">\n")
}

func (ew *errWriter) element(depth int, name string, attrs ...attr) {
	ew.indent(depth)
	ew.raw("<" + name)
	for _, a := range attrs {
		ew.raw(" " + a.name + `="`)
		if ew.err == nil {
			ew.err = xml.EscapeText(ew.w, []byte(a.value))
		}
		ew.raw(`"`)
	}
	ew.raw("/>\n")
}
