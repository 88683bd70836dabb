package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/source"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{name: "replay", args: []string{"-replay", "session.jsonl"}, want: options{Replay: "session.jsonl"}},
		{name: "stdin replay", args: []string{"-replay", "-", "-exit-on-end"}, want: options{Replay: "-", ExitOnEnd: true}},
		{name: "bridge with tray", args: []string{"-bridge", "leap-bridge --json", "-tray"}, want: options{Bridge: "leap-bridge --json", Tray: true}},
		{name: "record bridge", args: []string{"-bridge", "leap-bridge", "-record", "out.jsonl"}, want: options{Bridge: "leap-bridge", Record: "out.jsonl"}},
		{name: "no source", args: nil, wantErr: true},
		{name: "both sources", args: []string{"-replay", "a", "-bridge", "b"}, wantErr: true},
		{name: "unknown flag", args: []string{"-camera", "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("mudra", flag.ContinueOnError)
			fs.SetOutput(io.Discard)

			got, err := parseFlags(fs, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseFlags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSettingsURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080/",
		"127.0.0.1:9000": "http://127.0.0.1:9000/",
	}
	for addr, want := range tests {
		if got := settingsURL(addr); got != want {
			t.Errorf("settingsURL(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestOpenSource_Record(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jsonl")
	out := filepath.Join(dir, "out.jsonl")
	session := `{"t": 0, "hands": [{"chirality": "left", "pinch_strength": 0.1}, null]}
{"t": 0.5, "hands": [{"chirality": "right", "pinch_strength": 0.9}, null]}
`
	if err := os.WriteFile(in, []byte(session), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := openSource(options{Replay: in, Record: out}, zerolog.Nop())
	if err != nil {
		t.Fatalf("openSource() error = %v", err)
	}
	n := 0
	for {
		_, err := src.Next(context.Background())
		if errors.Is(err, source.ErrExhausted) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		n++
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected recording: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); n != 2 || lines != 2 {
		t.Errorf("expected 2 frames recorded, read %d and wrote %d lines", n, lines)
	}

	if _, err := openSource(options{Replay: in, Record: filepath.Join(dir, "missing", "out.jsonl")}, zerolog.Nop()); err == nil {
		t.Error("expected error for an unwritable recording path")
	}
}
