package jsonld

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Identifying and display fields serialize first; anything unlisted follows
// alphabetically, and openingHoursSpecification always serializes last.
var preferredTopOrder = []string{
	"@context",
	"@type",
	"address",
	"location",
	"medicalSpecialty",
	"name",
	"@id",
	"url",
	"contactPoint",
	"additionalProperty",
}

var preferredLocationOrder = []string{"@type", "address", "name", "geo", "hasMap"}

const keyOpeningHours = "openingHoursSpecification"

// MarshalCanonical serializes a node with a stable, display-oriented key
// order. An address nested under location is surfaced as a top-level copy so
// address-bearing entities render it prominently.
func MarshalCanonical(n Node) ([]byte, error) {
	return json.Marshal(orderTopLevel(n))
}

func orderTopLevel(n Node) jsonObject {
	d := make(Node, len(n)+1)
	for k, v := range n {
		d[k] = v
	}
	if _, present := d["address"]; !present {
		if loc, ok := d["location"].(map[string]any); ok {
			if addr, ok := loc["address"]; ok {
				d["address"] = addr
			}
		}
	}
	if loc, ok := d["location"].(map[string]any); ok {
		d["location"] = orderKeys(loc, preferredLocationOrder, "")
	}
	return orderKeys(d, preferredTopOrder, keyOpeningHours)
}

// orderKeys lays out preferred keys first, remaining keys alphabetically, and
// an optional trailing key last.
func orderKeys(d Node, preferred []string, last string) jsonObject {
	obj := make(jsonObject, 0, len(d))
	placed := make(map[string]struct{}, len(d))

	for _, k := range preferred {
		if v, ok := d[k]; ok {
			obj = append(obj, jsonMember{Key: k, Value: v})
			placed[k] = struct{}{}
		}
	}

	rest := make([]string, 0, len(d))
	for k := range d {
		if _, done := placed[k]; done || k == last {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		obj = append(obj, jsonMember{Key: k, Value: d[k]})
	}

	if last != "" {
		if v, ok := d[last]; ok {
			obj = append(obj, jsonMember{Key: last, Value: v})
		}
	}
	return obj
}

type jsonMember struct {
	Key   string
	Value any
}

// jsonObject marshals as a JSON object with members in slice order.
type jsonObject []jsonMember

func (o jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
