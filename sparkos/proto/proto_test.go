package proto

import "testing"

func TestKindString(t *testing.T) {
	tcs := []struct {
		k    Kind
		want string
	}{
		{MsgLogLine, "log_line"},
		{MsgTermWrite, "term_write"},
		{MsgTermClear, "term_clear"},
		{Kind(0), "unknown"},
	}
	for _, tc := range tcs {
		if got := tc.k.String(); got != tc.want {
			t.Fatalf("Kind(%d).String()=%q; want %q", tc.k, got, tc.want)
		}
	}
}
