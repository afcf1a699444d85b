package gateway

import (
	"encoding/json"
	"strconv"
	"strings"
)

// infoResponse is the body of GET /api/info
type infoResponse struct {
	TotalChunks int                        `json:"total_chunks"`
	Files       map[string]json.RawMessage `json:"files"`
	Message     string                     `json:"message,omitempty"`
}

// fileMetadata is the per-file entry inside infoResponse.Files.
// The server treats it as free-form, so decoding is best effort.
type fileMetadata struct {
	Chunks int   `json:"chunks"`
	Pages  []int `json:"pages"`
}

// searchRequest is the body of POST /api/search
type searchRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
	FileFilter string `json:"file_filter,omitempty"`
}

// searchHit is one element of the POST /api/search response
type searchHit struct {
	ID       flexString     `json:"id"`
	Score    float64        `json:"score"`
	Metadata searchMetadata `json:"metadata"`
}

type searchMetadata struct {
	FileName string  `json:"file_name"`
	Page     flexInt `json:"page"`
	Text     string  `json:"text"`
}

// statusResponse is the body of upload and reset responses
type statusResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	TotalChunks int    `json:"total_chunks,omitempty"`
}

// healthResponse is the body of GET /api/health
type healthResponse struct {
	Status            string `json:"status"`
	EngineInitialized bool   `json:"engine_initialized"`
}

// errorResponse is the body the server sends alongside a non-2xx status
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// flexString accepts a JSON string or number
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	if string(data) == "null" {
		*s = ""
		return nil
	}
	*s = flexString(strings.TrimSpace(string(data)))
	return nil
}

// flexInt accepts a JSON number, numeric string, or null
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	if i, err := strconv.Atoi(raw); err == nil {
		*n = flexInt(i)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Unparseable pages fall back to the default page
		*n = 0
		return nil
	}
	*n = flexInt(int(f))
	return nil
}
