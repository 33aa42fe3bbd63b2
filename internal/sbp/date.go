package sbp

import "time"

const epochYear = 2000

const (
	maskSeconds = 0x0000003F
	maskMinutes = 0x00000FC0
	maskHours   = 0x0001F000
	maskDay     = 0x003E0000
	maskMonths  = 0xFFC00000
)

// DecodePackedDate unpacks a point record date word.
//
// Layout (LSB first): seconds 6 bits, minutes 6 bits, hours 5 bits, day of
// month 5 bits, then 10 bits counting months since January 2000.
//
// Every word decodes. Seconds, minutes and hours past their range wrap inside
// their own unit; day and month overflow roll into the calendar, so day 0 is
// the last day of the previous month.
func DecodePackedDate(word uint32) time.Time {
	sec := int(word & maskSeconds)
	minute := int((word & maskMinutes) >> 6)
	hour := int((word & maskHours) >> 12)
	day := int((word & maskDay) >> 17)
	months := int((word & maskMonths) >> 22)

	month := months % 12
	year := epochYear + months/12

	return time.Date(year, time.Month(month+1), day, hour%24, minute%60, sec%60, 0, time.UTC)
}

// EncodePackedDate is the inverse of DecodePackedDate for in-range values.
// month is 1-based like time.Month. Fields are masked to their bit widths.
func EncodePackedDate(year int, month time.Month, day, hour, minute, sec int) uint32 {
	months := uint32((year-epochYear)*12 + int(month) - 1)
	return uint32(sec)&0x3F |
		(uint32(minute)&0x3F)<<6 |
		(uint32(hour)&0x1F)<<12 |
		(uint32(day)&0x1F)<<17 |
		(months&0x3FF)<<22
}

// Date decodes the packed date word at offset 4 of a point record.
func Date(rec []byte) time.Time {
	return DecodePackedDate(U32(rec, offDate))
}
