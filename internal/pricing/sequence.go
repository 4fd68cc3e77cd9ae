package pricing

import "fmt"

// SequentialNumber formats the human readable reference of an order, e.g.
// SequentialNumber("PED", 7) == "PED-0007". Ordinals above 9999 keep all
// their digits.
//
// The ordinal is derived by callers from a count of existing records, so two
// concurrent creations can produce the same number. It is a display reference
// only and never the primary key.
func SequentialNumber(prefix string, ordinal int) string {
	return fmt.Sprintf("%s-%04d", prefix, ordinal)
}
