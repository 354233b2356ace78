package variant

import (
	"encoding/json"
	"testing"
)

func TestAnswerValue_JSON(t *testing.T) {
	var got []AnswerValue
	if err := json.Unmarshal([]byte(`[3, [1,4], null, -1, []]`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []AnswerValue{Scalar(3), List(1, 4), Scalar(0), Scalar(-1), List()}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("[%d] = %s (%s), want %s (%s)", i, got[i], got[i].Kind(), want[i], want[i].Kind())
		}
	}
	out, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `[3,[1,4],0,-1,[]]` {
		t.Fatalf("marshal = %s", out)
	}

	var bad AnswerValue
	if err := json.Unmarshal([]byte(`"3"`), &bad); err == nil {
		t.Fatalf("string answer must be rejected")
	}
	if err := json.Unmarshal([]byte(`2.5`), &bad); err == nil {
		t.Fatalf("fractional answer must be rejected")
	}
}

func TestAnswerValue_Sentinels(t *testing.T) {
	cases := []struct {
		v          AnswerValue
		unanswered bool
		dontKnow   bool
	}{
		{AnswerValue{}, true, false},
		{Scalar(0), true, false},
		{Scalar(-1), false, true},
		{Scalar(4), false, false},
		{List(), true, false},
		{List(1, 0), true, false},
		{List(0, 0), true, false},
		{List(2, 3), false, false},
	}
	for _, tc := range cases {
		if got := tc.v.Unanswered(); got != tc.unanswered {
			t.Errorf("%s Unanswered() = %v", tc.v, got)
		}
		if got := tc.v.DontKnow(); got != tc.dontKnow {
			t.Errorf("%s DontKnow() = %v", tc.v, got)
		}
	}
}

func TestAnswerValue_EqualIsOrderAndShapeSensitive(t *testing.T) {
	if List(1, 4).Equal(List(4, 1)) {
		t.Fatalf("permuted list must not be equal")
	}
	if List(3).Equal(Scalar(3)) {
		t.Fatalf("list and scalar must not be equal")
	}
	if !List(1, 1, 2, 2).Equal(List(1, 1, 2, 2)) {
		t.Fatalf("identical lists must be equal")
	}
	if List(1, 4).Equal(List(1, 4, 2)) {
		t.Fatalf("prefix must not be equal")
	}
}

func TestList_CopiesInput(t *testing.T) {
	in := []int{1, 2}
	v := List(in...)
	in[0] = 5
	if !v.Equal(List(1, 2)) {
		t.Fatalf("List must copy its input, got %s", v)
	}
	p := v.Parts()
	p[1] = 5
	if !v.Equal(List(1, 2)) {
		t.Fatalf("Parts must return a copy, got %s", v)
	}
}
