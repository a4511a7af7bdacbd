package analytics

import (
	"testing"
)

func TestActionExtendsView(t *testing.T) {
	view := View()
	action := Action()

	if len(action.Fields) != len(view.Fields)+1 {
		t.Fatalf("action fields = %d, want %d", len(action.Fields), len(view.Fields)+1)
	}
	for i, f := range view.Fields {
		if action.Fields[i].Name != f.Name {
			t.Errorf("field %d = %q, want %q", i, action.Fields[i].Name, f.Name)
		}
	}

	last := action.Fields[len(action.Fields)-1]
	if last.Name != "action" || !last.Required {
		t.Errorf("last field = %+v", last)
	}
}

func TestGoalExtendsView(t *testing.T) {
	goal := Goal()

	f, ok := goal.Field("goal")
	if !ok || !f.Required {
		t.Fatalf("goal field = %+v (found %v)", f, ok)
	}
	if _, ok := goal.Field("action"); ok {
		t.Error("goal schema must not carry the action field")
	}
}

func TestExtendDoesNotMutateView(t *testing.T) {
	before := len(View().Fields)
	_ = Action()
	_ = Goal()
	if after := len(View().Fields); after != before {
		t.Errorf("view fields = %d after extension, want %d", after, before)
	}
}
