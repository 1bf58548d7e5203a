package effects

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/astra-lang/astra/internal/object"
)

// HTTPNet implements Net over net/http. A response body is decoded as
// JSON into an Astra Value tree when possible (objects become Map,
// arrays become List); a body that isn't valid JSON is carried through
// as plain Text, so `Net.get` never fails just because the remote
// endpoint returned text/plain.
type HTTPNet struct {
	client *http.Client
}

func NewHTTPNet() *HTTPNet {
	return &HTTPNet{client: &http.Client{Timeout: 30 * time.Second}}
}

func (n *HTTPNet) Get(url string) (object.Value, error) {
	resp, err := n.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeBody(resp)
}

func (n *HTTPNet) Post(url, body string) (object.Value, error) {
	resp, err := n.client.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeBody(resp)
}

func decodeBody(resp *http.Response) (object.Value, error) {
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &httpStatusError{status: resp.Status, body: string(b)}
	}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return object.Text(string(b)), nil
	}
	return jsonToValue(raw), nil
}

type httpStatusError struct {
	status string
	body   string
}

func (e *httpStatusError) Error() string {
	if e.body == "" {
		return e.status
	}
	return e.status + ": " + e.body
}

func jsonToValue(raw interface{}) object.Value {
	switch v := raw.(type) {
	case nil:
		return object.Unit{}
	case bool:
		return object.Bool(v)
	case float64:
		if v == float64(int64(v)) {
			return object.Int(int64(v))
		}
		return object.Float(v)
	case string:
		return object.Text(v)
	case []interface{}:
		out := make([]object.Value, len(v))
		for i, e := range v {
			out[i] = jsonToValue(e)
		}
		return object.NewList(out)
	case map[string]interface{}:
		m := object.NewMap()
		for k, e := range v {
			m.Set(object.Text(k), jsonToValue(e))
		}
		return m
	default:
		return object.Unit{}
	}
}

func (c *Capabilities) dispatchNet(op string, args []object.Value) (object.Value, error) {
	if c.Net == nil {
		return nil, capErr("Net")
	}
	switch op {
	case "get":
		url, ok := textArg(args, 0)
		if !ok {
			return nil, typeErr("Net.get expects a Text url")
		}
		v, err := c.Net.Get(url)
		if err != nil {
			return object.Err(object.Text(err.Error())), nil
		}
		return object.Ok(v), nil
	case "post":
		if len(args) != 2 {
			return nil, arityErr("Net", "post", 2, len(args))
		}
		url, ok1 := textArg(args, 0)
		body, ok2 := textArg(args, 1)
		if !ok1 || !ok2 {
			return nil, typeErr("Net.post expects (Text, Text)")
		}
		v, err := c.Net.Post(url, body)
		if err != nil {
			return object.Err(object.Text(err.Error())), nil
		}
		return object.Ok(v), nil
	default:
		return nil, unknownOp("Net", op)
	}
}
