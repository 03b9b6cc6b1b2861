package hipchat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the result of a single HTTP call.
type Response struct {
	StatusCode int
	Header     http.Header
	raw        []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode <= 299
}

// Raw returns the undecoded response body.
func (r *Response) Raw() []byte {
	if r == nil {
		return nil
	}
	return r.raw
}

// Body decodes the response as a JSON object. An empty body yields nil.
func (r *Response) Body() (Params, error) {
	if len(bytes.TrimSpace(r.Raw())) == 0 {
		return nil, nil
	}
	var body Params
	if err := r.Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// Decode unmarshals the response body into dest.
func (r *Response) Decode(dest any) error {
	decoder := json.NewDecoder(bytes.NewReader(r.Raw()))
	decoder.UseNumber()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
