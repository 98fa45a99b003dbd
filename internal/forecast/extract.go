package forecast

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrMalformedPayload marks a snapshot whose payload does not decode into
// the daily forecast shape. Callers drop such snapshots and carry on.
var ErrMalformedPayload = errors.New("malformed forecast payload")

// Day is one entry of a daily forecast document. The field names follow
// the weatherbit daily forecast, which every provider is normalized into.
type Day struct {
	ValidDate string   `json:"valid_date"`
	MaxTemp   *float64 `json:"max_temp"`
	MinTemp   *float64 `json:"min_temp"`
	Temp      *float64 `json:"temp"`
	Precip    *float64 `json:"precip"`
	Pres      *float64 `json:"pres"`
	RH        *float64 `json:"rh"`
	WindSpd   *float64 `json:"wind_spd"`
}

// Field picks the scalar to chart from a forecast day. The bool is false
// when the day does not carry the value.
type Field func(d Day) (float64, bool)

func pick(get func(d Day) *float64) Field {
	return func(d Day) (float64, bool) {
		v := get(d)
		if v == nil {
			return 0, false
		}
		return *v, true
	}
}

var fields = map[string]Field{
	"max_temp": pick(func(d Day) *float64 { return d.MaxTemp }),
	"min_temp": pick(func(d Day) *float64 { return d.MinTemp }),
	"temp":     pick(func(d Day) *float64 { return d.Temp }),
	"precip":   pick(func(d Day) *float64 { return d.Precip }),
	"pres":     pick(func(d Day) *float64 { return d.Pres }),
	"rh":       pick(func(d Day) *float64 { return d.RH }),
	"wind_spd": pick(func(d Day) *float64 { return d.WindSpd }),
}

// MaxTemp is the field the charts use unless configured otherwise.
var MaxTemp = fields["max_temp"]

// FieldByName resolves a configured field name.
func FieldByName(name string) (Field, error) {
	f, ok := fields[name]
	if !ok {
		return nil, eris.Errorf("forecast: unknown field %q", name)
	}
	return f, nil
}

// Extract decodes a raw daily forecast payload and turns it into a Curve
// for the given as-of date.
func Extract(asOf time.Time, payload []byte, field Field) (Curve, error) {
	var days []Day
	if err := json.Unmarshal(payload, &days); err != nil {
		return Curve{}, eris.Wrapf(ErrMalformedPayload, "decode: %v", err)
	}
	if days == nil {
		return Curve{}, eris.Wrap(ErrMalformedPayload, "no forecast days")
	}

	points := make([]Point, 0, len(days))
	for i, d := range days {
		date, err := ParseDate(d.ValidDate)
		if err != nil {
			return Curve{}, eris.Wrapf(ErrMalformedPayload, "day %d: %v", i, err)
		}
		v, ok := field(d)
		if !ok {
			return Curve{}, eris.Wrapf(ErrMalformedPayload, "day %d (%s): missing value", i, d.ValidDate)
		}
		points = append(points, Point{Date: date, Value: v})
	}

	return Curve{AsOf: Truncate(asOf), Points: points}, nil
}

// Source is a stored payload together with its as-of date.
type Source struct {
	AsOf    time.Time
	Payload []byte
}

// ExtractAll extracts every source, dropping the ones that fail to decode.
// A single bad snapshot never aborts the rest.
func ExtractAll(sources []Source, field Field) []Curve {
	curves := make([]Curve, 0, len(sources))
	for _, src := range sources {
		c, err := Extract(src.AsOf, src.Payload, field)
		if err != nil {
			zap.L().Warn("dropping snapshot from aggregate",
				zap.String("as_of", FormatDate(src.AsOf)),
				zap.Error(err),
			)
			continue
		}
		curves = append(curves, c)
	}
	return curves
}
