package patternmatch

import "encoding/json"

// Request is an inbound match request.
type Request struct {
	Pattern string `json:"pattern"`
	Text    string `json:"text"`
}

// Match is the first match of a pattern in a text.
type Match struct {
	// Groups holds the whole match at index 0 followed by every capture group.
	// Groups that did not participate in the match are empty.
	Groups []string `json:"groups"`
	// Index is the offset of the match in Input, in UTF-16 code units as in a
	// JavaScript match result.
	Index int `json:"index"`
	// Input is the text the pattern ran against.
	Input string `json:"input"`
	// Named holds named capture groups.
	Named map[string]string `json:"named,omitempty"`
}

// Response is an outbound match response. Exactly one of Result or Error is
// meaningful; a nil Result with an empty Error means no match.
type Response struct {
	Result *Match
	Error  string
}

// MarshalJSON encodes {"error": ...} for failures and {"result": ...} otherwise.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	return json.Marshal(struct {
		Result *Match `json:"result"`
	}{r.Result})
}

// UnmarshalJSON decodes both response shapes.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw struct {
		Result *Match `json:"result"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Result = raw.Result
	r.Error = raw.Error
	return nil
}
