package sbp

import (
	"testing"
	"time"
)

func TestDecodePackedDate_RoundTrip(t *testing.T) {
	word := EncodePackedDate(2021, time.June, 15, 10, 20, 30)
	got := DecodePackedDate(word)
	want := time.Date(2021, time.June, 15, 10, 20, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("decoded=%s want %s", got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("location=%s want UTC", got.Location())
	}
}

func TestDecodePackedDate_BitLayout(t *testing.T) {
	// months=257 -> 2021 (257/12=21), June (257%12=5)
	word := uint32(30) | uint32(20)<<6 | uint32(10)<<12 | uint32(15)<<17 | uint32(257)<<22
	if word != EncodePackedDate(2021, time.June, 15, 10, 20, 30) {
		t.Fatalf("EncodePackedDate=0x%08X want 0x%08X", EncodePackedDate(2021, time.June, 15, 10, 20, 30), word)
	}
}

func TestDecodePackedDate_OutOfRangeFields(t *testing.T) {
	cases := []struct {
		name string
		word uint32
		want string
	}{
		{
			name: "DayZeroIsLastDayOfPreviousMonth",
			word: EncodePackedDate(2021, time.March, 0, 0, 0, 0),
			want: "2021-02-28T00:00:00.000Z",
		},
		{
			name: "Day31InThirtyDayMonthRollsOver",
			word: EncodePackedDate(2021, time.June, 31, 12, 0, 0),
			want: "2021-07-01T12:00:00.000Z",
		},
		{
			name: "SecondsWrapWithoutCarry",
			word: EncodePackedDate(2021, time.June, 15, 10, 20, 63),
			want: "2021-06-15T10:20:03.000Z",
		},
		{
			name: "MinutesWrapWithoutCarry",
			word: EncodePackedDate(2021, time.June, 15, 10, 61, 0),
			want: "2021-06-15T10:01:00.000Z",
		},
		{
			name: "HoursWrapWithoutCarry",
			word: EncodePackedDate(2021, time.June, 15, 31, 0, 0),
			want: "2021-06-15T07:00:00.000Z",
		},
		{
			name: "ZeroWord",
			word: 0,
			want: "1999-12-31T00:00:00.000Z",
		},
		{
			name: "AllOnes",
			word: 0xFFFFFFFF,
			// months=1023 -> 2085, month index 3 (April); day 31 -> May 1; 31h -> 07; 63m -> 03; 63s -> 03
			want: "2085-05-01T07:03:03.000Z",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatTime(DecodePackedDate(tc.word)); got != tc.want {
				t.Fatalf("decoded=%s want %s", got, tc.want)
			}
		})
	}
}

func TestDecodePackedDate_TotalAndDeterministic(t *testing.T) {
	// Stride through the word space; a prime step touches every bit field.
	const step = 9973
	for w := uint64(0); w <= 0xFFFFFFFF; w += step * 97 {
		word := uint32(w)
		a := FormatTime(DecodePackedDate(word))
		b := FormatTime(DecodePackedDate(word))
		if a != b {
			t.Fatalf("word 0x%08X decoded to %s then %s", word, a, b)
		}
		if len(a) != len(TimeLayout) {
			t.Fatalf("word 0x%08X formatted as %q", word, a)
		}
	}
}
