package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const harVersion = "1.2"

// HARDocument is the top-level archive written to the output file.
type HARDocument struct {
	Log HARLog `json:"log"`
}

type HARLog struct {
	Version string     `json:"version"`
	Creator HARCreator `json:"creator"`
	Entries []HAREntry `json:"entries"`
}

type HARCreator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type HAREntry struct {
	StartedDateTime string      `json:"startedDateTime"`
	Time            float64     `json:"time"`
	Request         HARRequest  `json:"request"`
	Response        HARResponse `json:"response"`
}

type HARRequest struct {
	Method      string      `json:"method"`
	URL         string      `json:"url"`
	HTTPVersion string      `json:"httpVersion"`
	Headers     []HARHeader `json:"headers"`
	BodySize    int         `json:"bodySize"`
}

type HARResponse struct {
	Status      int         `json:"status"`
	StatusText  string      `json:"statusText"`
	HTTPVersion string      `json:"httpVersion"`
	Headers     []HARHeader `json:"headers"`
	Content     HARContent  `json:"content"`
}

type HARContent struct {
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

type HARHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// BuildHAR assembles the archive document from every successfully parsed flow.
func BuildHAR(flows []*HTTPFlow) *HARDocument {
	doc := &HARDocument{Log: HARLog{
		Version: harVersion,
		Creator: HARCreator{Name: "pcaphar", Version: appVersion},
		Entries: []HAREntry{},
	}}
	for _, hf := range flows {
		for _, pair := range hf.Pairs {
			doc.Log.Entries = append(doc.Log.Entries, buildEntry(hf, pair))
		}
	}
	return doc
}

func buildEntry(hf *HTTPFlow, pair MessagePair) HAREntry {
	req := pair.Request
	entry := HAREntry{
		StartedDateTime: utcISO(hf.Flow.FirstSeen()),
		Time:            float64(hf.Flow.LastSeen().Sub(hf.Flow.FirstSeen())) / float64(time.Millisecond),
		Request: HARRequest{
			Method:      req.Method,
			URL:         requestURL(hf, req),
			HTTPVersion: req.Proto,
			Headers:     harHeaders(req.Header),
			BodySize:    len(pair.RequestBody),
		},
	}
	if pair.Response != nil {
		entry.Response = HARResponse{
			Status:      pair.Response.StatusCode,
			StatusText:  pair.Response.Status,
			HTTPVersion: pair.Response.Proto,
			Headers:     harHeaders(pair.Response.Header),
			Content: HARContent{
				Size:     len(pair.ResponseBody),
				MimeType: pair.Response.Header.Get("Content-Type"),
				Text:     string(pair.ResponseBody),
			},
		}
	}
	return entry
}

func requestURL(hf *HTTPFlow, req *http.Request) string {
	host := req.Host
	if host == "" {
		host = hf.Key.Dst.String()
	}
	return fmt.Sprintf("http://%s%s", host, req.URL.RequestURI())
}

func harHeaders(h map[string][]string) []HARHeader {
	out := []HARHeader{}
	for _, name := range headerNames(h) {
		for _, v := range h[name] {
			out = append(out, HARHeader{Name: name, Value: v})
		}
	}
	return out
}

// MarshalHAR renders the document as indented JSON.
func MarshalHAR(doc *HARDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
