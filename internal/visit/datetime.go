package visit

import "time"

// LocalLayout is the wall-clock format the visit dialogs work with.
const LocalLayout = "2006-01-02T15:04"

// ParseLocalDateTime converts a local wall-clock string into an absolute
// UTC instant. Wall times inside a DST spring-forward gap do not exist in
// loc; ParseInLocation shifts them to the nearest representable time, so
// the FormatLocalDateTime round trip only holds for times that exist.
func ParseLocalDateTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(LocalLayout, s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatLocalDateTime is the exact inverse of ParseLocalDateTime: editing a
// visit and resaving without changes must be a no-op.
func FormatLocalDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(LocalLayout)
}
