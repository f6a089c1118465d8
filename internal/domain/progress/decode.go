package progress

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/rpggio/cycletrack/internal/domain/schedule"
)

// Decode builds a record from a replace payload. Each field is recovered
// on its own: a non-object map becomes an empty map, a non-string start
// date becomes absent, and entries keyed outside the cycle are dropped.
// Only a body that is not a JSON object at all is rejected.
func Decode(cycle *schedule.Cycle, body []byte) (*Progress, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, ErrInvalidBody
	}

	p := Empty()
	p.CheckedDays = decodeCheckedDays(cycle, fields["checkedDays"])
	p.DailyCapsules = decodeDailyCapsules(cycle, fields["dailyCapsules"])

	var start string
	if raw, ok := fields["startDate"]; ok && json.Unmarshal(raw, &start) == nil {
		p.StartDate = start
	}
	return p, nil
}

func decodeCheckedDays(cycle *schedule.Cycle, raw json.RawMessage) map[int]bool {
	out := map[int]bool{}
	entries, ok := object(raw)
	if !ok {
		return out
	}
	for key, val := range entries {
		day, ok := dayKey(cycle, key)
		if !ok {
			continue
		}
		var checked bool
		if err := json.Unmarshal(val, &checked); err != nil {
			continue
		}
		out[day] = checked
	}
	return out
}

func decodeDailyCapsules(cycle *schedule.Cycle, raw json.RawMessage) map[int]Capsules {
	out := map[int]Capsules{}
	entries, ok := object(raw)
	if !ok {
		return out
	}
	for key, val := range entries {
		day, ok := dayKey(cycle, key)
		if !ok {
			continue
		}
		counters, ok := object(val)
		if !ok {
			continue
		}
		caps := cycle.DefaultCapsules(day)
		for _, c := range schedule.Compounds {
			v, present := counters[string(c)]
			if !present {
				continue
			}
			if n, ok := capsuleCount(v); ok {
				caps = caps.Set(c, n)
			}
		}
		out[day] = caps
	}
	return out
}

// capsuleCount accepts whole numbers up to MaxCapsules. Negative values
// clamp to 0; fractions and larger values are rejected.
func capsuleCount(raw json.RawMessage) (int, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil || n != math.Trunc(n) {
		return 0, false
	}
	if n < 0 {
		return 0, true
	}
	if n > MaxCapsules {
		return 0, false
	}
	return int(n), true
}

// object decodes raw as a JSON object; null, arrays and scalars are not objects.
func object(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

func dayKey(cycle *schedule.Cycle, key string) (int, bool) {
	day, err := strconv.Atoi(key)
	if err != nil || !cycle.ValidDay(day) {
		return 0, false
	}
	return day, true
}
