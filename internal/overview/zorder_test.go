package overview

import (
	"slices"
	"testing"
)

func TestAssignZOrder(t *testing.T) {
	cases := []struct {
		name string
		keys []ZKey
		want []int
	}{
		{
			name: "recency",
			keys: []ZKey{{LastActivated: 1, Serial: 1}, {LastActivated: 3, Serial: 2}, {LastActivated: 2, Serial: 3}},
			want: []int{0, 2, 1},
		},
		{
			name: "minimized sinks",
			keys: []ZKey{{LastActivated: 9, Serial: 1, Minimized: true}, {LastActivated: 1, Serial: 2}},
			want: []int{0, 1},
		},
		{
			name: "raised floats",
			keys: []ZKey{{LastActivated: 9, Serial: 1}, {LastActivated: 1, Serial: 2, Raised: true}},
			want: []int{0, 1},
		},
		{
			name: "minimized beats raised",
			keys: []ZKey{{Serial: 1, Raised: true, Minimized: true}, {Serial: 2}},
			want: []int{0, 1},
		},
		{
			name: "ties by creation",
			keys: []ZKey{{Serial: 5}, {Serial: 2}, {Serial: 9}},
			want: []int{1, 2, 0},
		},
		{
			name: "empty",
			keys: nil,
			want: []int{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AssignZOrder(tc.keys); !slices.Equal(got, tc.want) {
				t.Fatalf("AssignZOrder = %v, want %v", got, tc.want)
			}
		})
	}
}
