package settings

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/codeGROOVE-dev/tzmeet/pkg/zones"
)

func TestExportShape(t *testing.T) {
	var buf bytes.Buffer
	s := Settings{RecentTimezones: []string{"Asia/Tokyo"}, SourceZone: "UTC", TargetZone: "Asia/Tokyo", Analytics: true}
	if err := Export(&buf, s); err != nil {
		t.Fatalf("Export: %v", err)
	}
	for _, key := range []string{`"recentTimezones"`, `"sourceZone"`, `"targetZone"`, `"analytics": true`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("export missing %s:\n%s", key, buf.String())
		}
	}
}

func TestRoundTripKeepsRecentOrder(t *testing.T) {
	recent := zones.NewRecent(0)
	for _, z := range []string{"Europe/Paris", "Asia/Tokyo", "America/Chicago"} {
		recent.Add(z)
	}
	var buf bytes.Buffer
	if err := Export(&buf, Capture(recent, "Europe/Paris", "Asia/Tokyo", false)); err != nil {
		t.Fatalf("Export: %v", err)
	}

	got, err := Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	restored := zones.NewRecent(0)
	restored.Add("Africa/Cairo")
	got.ApplyRecent(restored)
	if !reflect.DeepEqual(restored.List(), recent.List()) {
		t.Errorf("restored recent = %v, want %v", restored.List(), recent.List())
	}
	if got.SourceZone != "Europe/Paris" || got.TargetZone != "Asia/Tokyo" || got.Analytics {
		t.Errorf("Import = %+v", got)
	}
}

func TestImportRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown recent", `{"recentTimezones":["Mars/Base"],"sourceZone":"","targetZone":"","analytics":false}`, tzconvert.ErrUnknownZone},
		{"unknown source", `{"recentTimezones":[],"sourceZone":"Local","targetZone":"","analytics":false}`, tzconvert.ErrUnknownZone},
		{"unknown target", `{"recentTimezones":[],"sourceZone":"UTC","targetZone":"Nowhere","analytics":false}`, tzconvert.ErrUnknownZone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Import(strings.NewReader(tt.doc)); !errors.Is(err, tt.want) {
				t.Errorf("Import = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Import(strings.NewReader("{not json")); err == nil {
		t.Error("Import accepted malformed JSON")
	}
}

func TestValidateReportsSourceFirst(t *testing.T) {
	s := Settings{SourceZone: "Mars/Base", TargetZone: "Nowhere"}
	for range 20 {
		err := s.Validate()
		if !errors.Is(err, tzconvert.ErrUnknownZone) || !strings.HasPrefix(err.Error(), "sourceZone:") {
			t.Fatalf("Validate = %v, want the sourceZone error", err)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	empty, err := Load(path)
	if err != nil {
		t.Fatalf("Load(missing): %v", err)
	}
	if len(empty.RecentTimezones) != 0 || empty.SourceZone != "" {
		t.Errorf("Load(missing) = %+v", empty)
	}

	want := Settings{RecentTimezones: []string{"Europe/Berlin", "UTC"}, SourceZone: "UTC", TargetZone: "Europe/Berlin", Analytics: true}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}
