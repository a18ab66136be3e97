package angelone

import (
	"encoding/json"
	"strconv"
	"strings"

	"angelone-connect/internal/types"
)

// envelope is the common response wrapper. Fields are decoded one by one so
// that an oddly typed field never hides the ones an operation checks.
type envelope struct {
	Status  json.RawMessage
	Message string
	Data    json.RawMessage
}

// decodeEnvelope fails only when the body is not a JSON object.
func decodeEnvelope(body []byte) (*envelope, bool) {
	fields, ok := decodeObject(body)
	if !ok {
		return nil, false
	}
	return &envelope{
		Status:  fields["status"],
		Message: looseString(fields["message"]),
		Data:    fields["data"],
	}, true
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func hasData(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func messageOr(env *envelope, fallback string) string {
	if env != nil && env.Message != "" {
		return env.Message
	}
	return fallback
}

// truthy treats absent, null, false, 0, "", "0" and empty arrays or objects as false.
func truthy(raw json.RawMessage) bool {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != "" && x != "0"
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}

// looseString reads a JSON string, or the literal text of a number or bool.
func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var v any
	if json.Unmarshal(raw, &v) != nil {
		return ""
	}
	switch v.(type) {
	case float64, bool:
		return string(raw)
	}
	return ""
}

// looseFloat reads a JSON number or a numeric string; ok is false otherwise.
func looseFloat(raw json.RawMessage) (float64, bool) {
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f, true
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// looseStrings reads a list of strings, or a comma-separated string.
func looseStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s := looseString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	s := looseString(raw)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// decodeProfile keeps data in Raw and fills the typed fields it can read.
func decodeProfile(data json.RawMessage) *types.Profile {
	p := &types.Profile{Raw: append(json.RawMessage(nil), data...)}
	fields, ok := decodeObject(data)
	if !ok {
		return p
	}
	p.ClientCode = looseString(fields["clientcode"])
	p.Name = looseString(fields["name"])
	p.Email = looseString(fields["email"])
	p.MobileNo = looseString(fields["mobileno"])
	p.Exchanges = looseStrings(fields["exchanges"])
	p.Products = looseStrings(fields["products"])
	p.LastLoginTime = looseString(fields["lastlogintime"])
	p.BrokerID = looseString(fields["brokerid"])
	return p
}
