package api

import "encoding/json"

// envelope is the {success, message, data} wrapper the API puts around most
// JSON responses.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// unwrap decodes a response body into out. When the envelope is present the
// "data" member is used; otherwise the raw body is decoded directly, which
// keeps the client compatible with endpoints that never adopted the wrapper.
func unwrap(body []byte, out any) error {
	if len(body) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Success != nil {
		if len(env.Data) > 0 && string(env.Data) != "null" {
			return json.Unmarshal(env.Data, out)
		}
	}
	return json.Unmarshal(body, out)
}
