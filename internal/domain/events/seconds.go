package events

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Seconds принимает как число, так и числовую строку ("42", "42.5").
// Мусор не ломает разбор всего события: Valid остается false, а решение
// об ошибке принимает обработчик конкретного события.
type Seconds struct {
	Value float64
	Valid bool
}

func (s *Seconds) UnmarshalJSON(data []byte) error {
	*s = Seconds{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(data)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	*s = Seconds{Value: v, Valid: true}

	return nil
}

func (s Seconds) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(s.Value)
}

// Whole отбрасывает дробную часть, как parseInt на клиенте
func (s Seconds) Whole() int {
	return int(math.Trunc(s.Value))
}
