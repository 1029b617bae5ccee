package domain

import "testing"

func TestTurnoverIndex(t *testing.T) {
	if got := TurnoverIndex("0-1 Crore"); got != 0 {
		t.Errorf("TurnoverIndex(0-1 Crore) = %d, want 0", got)
	}
	if got := TurnoverIndex("100+ Crores"); got != 6 {
		t.Errorf("TurnoverIndex(100+ Crores) = %d, want 6", got)
	}
	if got := TurnoverIndex("unknown bracket"); got != -1 {
		t.Errorf("TurnoverIndex(unknown) = %d, want -1", got)
	}
}

func TestMeetsTurnover(t *testing.T) {
	tests := []struct {
		name     string
		required string
		vendor   string
		want     bool
	}{
		{
			name:     "no requirement",
			required: "",
			vendor:   "0-1 Crore",
			want:     true,
		},
		{
			name:     "vendor turnover unknown",
			required: "10-25 Crores",
			vendor:   "",
			want:     true,
		},
		{
			name:     "vendor below requirement",
			required: "10-25 Crores",
			vendor:   "1-5 Crores",
			want:     false,
		},
		{
			name:     "vendor meets exactly",
			required: "10-25 Crores",
			vendor:   "10-25 Crores",
			want:     true,
		},
		{
			name:     "vendor exceeds requirement",
			required: "10-25 Crores",
			vendor:   "100+ Crores",
			want:     true,
		},
		{
			name:     "unrecognized required bracket passes",
			required: "approx 12 Crores",
			vendor:   "0-1 Crore",
			want:     true,
		},
		{
			name:     "unrecognized vendor bracket passes",
			required: "100+ Crores",
			vendor:   "a lot",
			want:     true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := MeetsTurnover(test.required, test.vendor); got != test.want {
				t.Errorf("MeetsTurnover(%q, %q) = %v, want %v", test.required, test.vendor, got, test.want)
			}
		})
	}
}
