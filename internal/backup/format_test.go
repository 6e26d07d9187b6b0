package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/history"
)

func writeTestArchive(t *testing.T, n int) string {
	t.Helper()
	records := make([]history.Record, n)
	for i := range records {
		records[i] = testRecord(0, i%2 == 0)
	}
	path := filepath.Join(t.TempDir(), "test.bak")
	if _, err := Write(path, &Archive{CreatedAt: baseTime, Records: records}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return path
}

func TestWrite_HeaderIsPlainText(t *testing.T) {
	path := writeTestArchive(t, 2)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	firstLine, _, _ := strings.Cut(string(data), "\n")
	for _, want := range []string{`"version":1`, `"record_count":2`, `"checksum":"sha256:`} {
		if !strings.Contains(firstLine, want) {
			t.Errorf("header %s missing %s", firstLine, want)
		}
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	path := writeTestArchive(t, 5)

	a, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(a.Records) != 5 {
		t.Errorf("Records = %d, want 5", len(a.Records))
	}
	if !a.CreatedAt.Equal(baseTime) {
		t.Errorf("CreatedAt = %v, want %v", a.CreatedAt, baseTime)
	}
}

func TestReadHeader(t *testing.T) {
	path := writeTestArchive(t, 3)

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if h.Version != FormatVersion || h.RecordCount != 3 || !h.CreatedAt.Equal(baseTime) {
		t.Errorf("header = %+v", h)
	}
}

func TestVerify_Valid(t *testing.T) {
	if err := Verify(writeTestArchive(t, 1)); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	path := writeTestArchive(t, 4)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-5] ^= 0xff
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	err = Verify(path)
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("Verify() error = %v, want checksum mismatch", err)
	}
	if _, err := Read(path); err == nil {
		t.Error("Read() should reject a tampered archive")
	}
}

func TestReadHeader_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"not json", "hello\n"},
		{"wrong version", `{"version":9,"checksum":"sha256:00"}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.bak")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := ReadHeader(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
