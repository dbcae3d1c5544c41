package logs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Record is one decoded JSON log line.
type Record struct {
	Time    time.Time
	Level   string
	Message string
	Stage   string
	Attrs   map[string]any
}

var reservedKeys = map[string]struct{}{
	"ts": {}, "level": {}, "msg": {}, "stage": {}, "build_id": {}, "source": {},
}

// ParseRecord decodes a build log line. ok is false for lines that are not
// JSON objects.
func ParseRecord(line string) (Record, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Record{}, false
	}
	rec := Record{Attrs: make(map[string]any)}
	if ts, ok := raw["ts"].(string); ok {
		rec.Time, _ = time.Parse(time.RFC3339Nano, ts)
	}
	rec.Level, _ = raw["level"].(string)
	rec.Message, _ = raw["msg"].(string)
	rec.Stage, _ = raw["stage"].(string)
	for key, value := range raw {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		rec.Attrs[key] = value
	}
	return rec, true
}

// String renders the record as "15:04:05 INFO  (stage) message key=value".
func (r Record) String() string {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(r.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", strings.ToUpper(r.Level))
	if r.Stage != "" {
		fmt.Fprintf(&b, " (%s)", r.Stage)
	}
	b.WriteByte(' ')
	b.WriteString(r.Message)

	keys := make([]string, 0, len(r.Attrs))
	for key := range r.Attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, r.Attrs[key])
	}
	return b.String()
}
