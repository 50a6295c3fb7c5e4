package state

import (
	"math"
	"strconv"
	"strings"
)

const timestampLayout = "2006-01-02 15:04:05"

// FormatCSV renders r as one log line without the trailing newline:
//
//	YYYY-MM-DD HH:MM:SS, shunt_mV, bus_V, current_mA, power_mW
//
// Every numeric field has exactly two decimals. Non-finite values are written
// as 0.00 so the column stays numeric.
func FormatCSV(r Record) string {
	var b strings.Builder
	b.Grow(64)

	b.WriteString(r.Timestamp.Format(timestampLayout))
	for _, v := range [...]float64{r.ShuntVoltageMV, r.BusVoltageV, r.CurrentMA, r.PowerMW} {
		b.WriteString(", ")
		b.WriteString(formatFixed2(v))
	}

	return b.String()
}

func formatFixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
