package hook

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/gesture"
)

func TestServe(t *testing.T) {
	tests := []struct {
		name  string
		input string
		fn    HandlerFunc
		want  Response
	}{
		{
			name:  "success with data",
			input: `{"event":{"kind":"pinch","chirality":"left","time":0},"config":{"key":"a"}}`,
			fn: func(req *Request) (json.RawMessage, error) {
				if req.Event.Kind != gesture.KindPinch {
					return nil, errors.New("wrong kind")
				}
				return req.Config, nil
			},
			want: Response{Success: true, Data: json.RawMessage(`{"key":"a"}`)},
		},
		{
			name:  "handler error",
			input: `{"event":{"kind":"grab","chirality":"right","time":0}}`,
			fn:    func(*Request) (json.RawMessage, error) { return nil, errors.New("no key configured") },
			want:  Response{Error: "no key configured"},
		},
		{
			name:  "bad request",
			input: `{`,
			fn:    func(*Request) (json.RawMessage, error) { t.Fatal("handler called"); return nil, nil },
			want:  Response{Error: "failed to decode request: unexpected EOF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := Serve(strings.NewReader(tt.input), &out, tt.fn); err != nil {
				t.Fatalf("Serve() error = %v", err)
			}

			var got Response
			if err := json.Unmarshal(out.Bytes(), &got); err != nil {
				t.Fatalf("invalid response %q: %v", out.String(), err)
			}
			if got.Success != tt.want.Success || got.Error != tt.want.Error || string(got.Data) != string(tt.want.Data) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
