package main

import (
	"bufio"
	"bytes"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// MessagePair is one request/response exchange recovered from a flow.
// Response is nil for a request the capture never saw answered.
type MessagePair struct {
	Request      *http.Request
	RequestBody  []byte
	Response     *http.Response
	ResponseBody []byte
}

// HTTPFlow is the result of HTTP extraction over one finalized flow.
type HTTPFlow struct {
	Key   ConnectionKey
	Pairs []MessagePair
	Flow  *Flow
}

// ExtractHTTP parses a finalized flow's two byte sequences as an HTTP/1.x
// conversation and pairs requests with responses in order. The returned error
// is a flow-level parse failure; it never concerns other flows.
func ExtractHTTP(flow *Flow) (*HTTPFlow, error) {
	reqData, respData, err := orientFlow(flow)
	if err != nil {
		return nil, err
	}

	reqs, bodies, err := readRequests(reqData)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, errors.New("no http requests in flow")
	}

	out := &HTTPFlow{Key: flow.Key(), Flow: flow}
	respReader := bufio.NewReader(bytes.NewReader(respData))
	for i, req := range reqs {
		pair := MessagePair{Request: req, RequestBody: bodies[i]}
		resp, err := http.ReadResponse(respReader, req)
		if err == nil {
			pair.Response = resp
			pair.ResponseBody, _ = io.ReadAll(resp.Body)
			resp.Body.Close()
		}
		out.Pairs = append(out.Pairs, pair)
	}
	return out, nil
}

// orientFlow decides which direction carries the requests. The response side
// starts with a status line; probing for its "HTTP/" prefix handles captures
// where the server side happened to be observed first.
func orientFlow(flow *Flow) (reqData, respData []byte, err error) {
	fwd, rev := flow.FwdBytes(), flow.RevBytes()
	switch {
	case len(fwd) == 0 && len(rev) == 0:
		return nil, nil, errors.New("empty flow")
	case bytes.HasPrefix(fwd, []byte("HTTP/")):
		return rev, fwd, nil
	case bytes.HasPrefix(rev, []byte("HTTP/")):
		return fwd, rev, nil
	default:
		// Neither side looks like responses; assume canonical orientation and
		// let request parsing reject non-HTTP data.
		return fwd, rev, nil
	}
}

func readRequests(data []byte) ([]*http.Request, [][]byte, error) {
	var reqs []*http.Request
	var bodies [][]byte
	br := bufio.NewReader(bytes.NewReader(data))
	for {
		req, err := http.ReadRequest(br)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			if len(reqs) > 0 {
				// Trailing garbage after valid exchanges, usually a request
				// cut off by the end of the capture.
				break
			}
			return nil, nil, errors.Wrap(err, "read request")
		}
		body, _ := io.ReadAll(req.Body)
		req.Body.Close()
		reqs = append(reqs, req)
		bodies = append(bodies, body)
	}
	return reqs, bodies, nil
}
