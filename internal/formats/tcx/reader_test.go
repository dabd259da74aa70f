package tcx

import (
	"strings"
	"testing"
	"time"

	"ridefile/internal/segment"
)

const sampleTCX = `<?xml version="1.0" encoding="UTF-8"?>
<TrainingCenterDatabase xmlns="http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2"
    xmlns:ns3="http://www.garmin.com/xmlschemas/ActivityExtension/v2">
  <Activities>
    <Activity Sport="Biking">
      <Id>2012-07-14T06:00:00Z</Id>
      <Lap StartTime="2012-07-14T06:00:00Z">
        <Track>
          <Trackpoint>
            <Time>2012-07-14T06:00:00Z</Time>
            <DistanceMeters>0</DistanceMeters>
            <HeartRateBpm><Value>120</Value></HeartRateBpm>
            <Cadence>85</Cadence>
            <Extensions><ns3:TPX><ns3:Speed>8.5</ns3:Speed><ns3:Watts>210</ns3:Watts></ns3:TPX></Extensions>
          </Trackpoint>
          <Trackpoint>
            <Time>2012-07-14T06:00:01Z</Time>
            <DistanceMeters>8.5</DistanceMeters>
            <HeartRateBpm><Value>121</Value></HeartRateBpm>
            <Cadence>86</Cadence>
          </Trackpoint>
        </Track>
      </Lap>
      <Lap StartTime="2012-07-14T06:00:02Z">
        <Track>
          <Trackpoint>
            <Time>2012-07-14T06:00:02Z</Time>
            <HeartRateBpm><Value>125</Value></HeartRateBpm>
          </Trackpoint>
        </Track>
      </Lap>
      <Creator><Name>Edge 500</Name></Creator>
    </Activity>
  </Activities>
</TrainingCenterDatabase>`

func TestReadRide(t *testing.T) {
	rec, errs := NewReader().ReadRide(strings.NewReader(sampleTCX))
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	if rec.DeviceType != "Edge 500" {
		t.Fatalf("device = %q", rec.DeviceType)
	}
	if !rec.StartTime.Equal(time.Date(2012, 7, 14, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", rec.StartTime)
	}
	if rec.SamplingPeriod != 1 {
		t.Fatalf("sampling period = %v", rec.SamplingPeriod)
	}
	if rec.Len() != 3 {
		t.Fatalf("samples = %d", rec.Len())
	}
	speed := 8.5
	first := rec.Samples[0]
	if first.HR != 120 || first.Cad != 85 || first.Watts != 210 || first.KPH != speed*mpsToKPH {
		t.Fatalf("first sample = %+v", first)
	}
	last := rec.Samples[2]
	if last.Secs != 2 || last.KM != 0.0085 || last.Interval != 1 {
		t.Fatalf("last sample = %+v", last)
	}

	bounds := segment.Boundaries(rec.Samples)
	if len(bounds) != 2 || bounds[0].Label != 0 || bounds[1].Label != 1 || bounds[1].BeginSecs != 2 {
		t.Fatalf("boundaries = %+v", bounds)
	}
}

func TestReadRideDefaultsDevice(t *testing.T) {
	doc := `<TrainingCenterDatabase><Activities><Activity><Lap><Track>
<Trackpoint><Time>2012-07-14T06:00:00Z</Time></Trackpoint>
</Track></Lap></Activity></Activities></TrainingCenterDatabase>`
	rec, errs := NewReader().ReadRide(strings.NewReader(doc))
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	if rec.DeviceType != "Garmin TCX" || rec.SamplingPeriod != 0 {
		t.Fatalf("unexpected recording %+v", rec)
	}
}

func TestReadRideErrors(t *testing.T) {
	const (
		head = "<TrainingCenterDatabase><Activities><Activity><Lap><Track>\n"
		tail = "</Track></Lap></Activity></Activities></TrainingCenterDatabase>"
	)
	cases := []struct {
		doc  string
		frag string
	}{
		{"<gpx/>", "parse document"},
		{"<TrainingCenterDatabase><Activities/></TrainingCenterDatabase>", "no activities found"},
		{"<TrainingCenterDatabase><Activities><Activity><Lap/></Activity></Activities></TrainingCenterDatabase>", "no trackpoints"},
		{head + "<Trackpoint><Time>noon</Time></Trackpoint>\n" + tail, "lap 1 trackpoint 1"},
		{
			head +
				"<Trackpoint><Time>2012-07-14T06:00:05Z</Time></Trackpoint>\n" +
				"<Trackpoint><Time>2012-07-14T06:00:01Z</Time></Trackpoint>\n" +
				tail,
			"negative sample time",
		},
	}
	for _, tc := range cases {
		rec, errs := NewReader().ReadRide(strings.NewReader(tc.doc))
		if rec != nil {
			t.Fatalf("expected nil recording for %q", tc.doc)
		}
		if !strings.Contains(strings.Join(errs, "\n"), tc.frag) {
			t.Fatalf("expected %q in %v", tc.frag, errs)
		}
	}
}
