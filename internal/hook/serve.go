package hook

import (
	"encoding/json"
	"fmt"
	"io"
)

// HandlerFunc handles one event inside a hook executable. The returned data
// is sent back in the response.
type HandlerFunc func(req *Request) (json.RawMessage, error)

// Serve is the hook side of the protocol: it reads one Request from r, runs
// fn and writes the Response to w.
func Serve(r io.Reader, w io.Writer, fn HandlerFunc) error {
	var resp Response

	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		resp.Error = fmt.Sprintf("failed to decode request: %v", err)
	} else if data, err := fn(&req); err != nil {
		resp.Error = err.Error()
	} else {
		resp.Success = true
		resp.Data = data
	}

	return json.NewEncoder(w).Encode(resp)
}
