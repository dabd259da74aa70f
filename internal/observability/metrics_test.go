package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOpened(t *testing.T) {
	before := testutil.ToFloat64(ridesOpenedCounter.WithLabelValues("gc"))
	RecordOpened("gc")
	RecordOpened("gc")
	if got := testutil.ToFloat64(ridesOpenedCounter.WithLabelValues("gc")); got != before+2 {
		t.Fatalf("rides opened = %v, want %v", got, before+2)
	}
}

func TestRecordOpenFailureDefaultsKind(t *testing.T) {
	before := testutil.ToFloat64(openFailureCounter.WithLabelValues("other"))
	RecordOpenFailure("")
	if got := testutil.ToFloat64(openFailureCounter.WithLabelValues("other")); got != before+1 {
		t.Fatalf("open failures = %v, want %v", got, before+1)
	}
}

func TestRecordDocumentWritten(t *testing.T) {
	docs := testutil.ToFloat64(documentsWrittenCounter)
	samples := testutil.ToFloat64(samplesWrittenCounter)
	RecordDocumentWritten(3)
	RecordDocumentWritten(0)
	if got := testutil.ToFloat64(documentsWrittenCounter); got != docs+2 {
		t.Fatalf("documents = %v, want %v", got, docs+2)
	}
	if got := testutil.ToFloat64(samplesWrittenCounter); got != samples+3 {
		t.Fatalf("samples = %v, want %v", got, samples+3)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordCatalogUpsert("inserted")
	path := filepath.Join(t.TempDir(), "ridefile.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ridefile_catalog_upserts_total") {
		t.Fatalf("textfile missing catalog counter:\n%s", data)
	}
	if err := WriteTextfile(""); err != nil {
		t.Fatalf("empty path should be a no-op, got %v", err)
	}
}
