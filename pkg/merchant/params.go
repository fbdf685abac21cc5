package merchant

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters. The order given is the order
// sent on the wire.
//
//	params := merchant.Params{}.Add("assetCode", "USD")
type Params []Param

// Add returns p with key=value appended.
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode renders the params as a URL query string, keeping their order.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, kv := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.Value))
	}
	return sb.String()
}

// MarshalJSON renders the params as a JSON object with keys in list order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
