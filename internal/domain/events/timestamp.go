package events

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Timestamp принимает RFC 3339 строку или миллисекунды Unix (Date.now() в браузере).
// Нераспознанное значение не ломает событие, Valid остается false.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)

	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}

		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			*t = Timestamp{Time: parsed, Valid: true}
			return nil
		}
	}

	ms, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return nil
	}

	*t = Timestamp{Time: time.UnixMilli(int64(ms)), Valid: true}

	return nil
}
