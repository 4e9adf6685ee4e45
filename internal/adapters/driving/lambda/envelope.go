package lambda

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

// Request is an inbound invocation after envelope decoding.
type Request struct {
	// Route is the last path segment, empty when the envelope carries no path.
	Route   string
	Body    map[string]any
	Query   map[string]string
	Headers map[string]string
}

// DecodeEnvelope accepts the three shapes the API sends: a proxy event with
// a JSON string (or object) body, a mapping template with body-json and
// params.querystring, or the request fields at the top level.
func DecodeEnvelope(raw []byte) (*Request, error) {
	var event map[string]any
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, domain.ClientError("Bad Request", "Invalid JSON in request body")
	}
	if event == nil {
		event = map[string]any{}
	}

	req := &Request{
		Route:   routeOf(event),
		Query:   stringMap(event["queryStringParameters"]),
		Headers: stringMap(event["headers"]),
	}
	if params, ok := event["params"].(map[string]any); ok {
		if len(req.Query) == 0 {
			req.Query = stringMap(params["querystring"])
		}
		if len(req.Headers) == 0 {
			req.Headers = stringMap(params["header"])
		}
	}

	switch body := event["body"].(type) {
	case string:
		if strings.TrimSpace(body) == "" {
			req.Body = map[string]any{}
			break
		}
		if err := json.Unmarshal([]byte(body), &req.Body); err != nil {
			return nil, domain.ClientError("Bad Request", "Invalid JSON in request body")
		}
	case map[string]any:
		req.Body = body
	default:
		if bj, ok := event["body-json"].(map[string]any); ok {
			req.Body = bj
		} else {
			req.Body = event
		}
	}
	if req.Body == nil {
		req.Body = map[string]any{}
	}
	return req, nil
}

// Decode copies the body into out, a pointer to a request struct. Field
// names follow the json tags; strings are accepted for numbers and booleans.
func (r *Request) Decode(out any) error {
	return decodeInto(r.Body, out)
}

// DecodeQuery copies the query parameters into out.
func (r *Request) DecodeQuery(out any) error {
	m := make(map[string]any, len(r.Query))
	for k, v := range r.Query {
		m[k] = v
	}
	return decodeInto(m, out)
}

func decodeInto(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return domain.InternalError(fmt.Errorf("create decoder: %w", err))
	}
	if err := dec.Decode(in); err != nil {
		return domain.ClientError("Bad Request", fmt.Sprintf("Invalid request parameters: %v", err))
	}
	return nil
}

// routeOf returns the last segment of the request path, looking at the
// proxy, HTTP API and mapping template locations in turn.
func routeOf(event map[string]any) string {
	var candidates []any
	candidates = append(candidates, event["path"], event["rawPath"], event["resource"])
	if rc, ok := event["requestContext"].(map[string]any); ok {
		candidates = append(candidates, rc["resourcePath"], rc["path"])
	}
	if ctx, ok := event["context"].(map[string]any); ok {
		candidates = append(candidates, ctx["resource-path"])
	}
	for _, c := range candidates {
		if s, ok := c.(string); ok {
			if seg := lastSegment(s); seg != "" {
				return seg
			}
		}
	}
	return ""
}

func lastSegment(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// stringMap converts a JSON object of scalars into a string map.
func stringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		switch x := val.(type) {
		case nil:
		case string:
			out[k] = x
		default:
			out[k] = fmt.Sprint(x)
		}
	}
	return out
}
