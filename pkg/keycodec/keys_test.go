package keycodec

import (
	"reflect"
	"testing"
)

func TestKeyTemplates(t *testing.T) {
	if got, want := HashFieldsKey("cats"), "kh-fields-cats"; got != want {
		t.Errorf("HashFieldsKey = %q, want %q", got, want)
	}
	if got, want := HashFieldKey("cats", "herb"), "kh-cats-herb"; got != want {
		t.Errorf("HashFieldKey = %q, want %q", got, want)
	}
	if got, want := ListItemsKey("mylist"), "kl-items-mylist"; got != want {
		t.Errorf("ListItemsKey = %q, want %q", got, want)
	}
	id := NewItemID()
	if got, want := ListItemKey(id), "kl-"+id; got != want {
		t.Errorf("ListItemKey = %q, want %q", got, want)
	}
}

func TestSplitJoinFields(t *testing.T) {
	fields := []string{"herb", "ferb", "klaus"}
	joined := JoinFields(fields)
	if want := "herb,,ferb,,klaus"; joined != want {
		t.Fatalf("JoinFields = %q, want %q", joined, want)
	}
	if got := SplitFields(joined); !reflect.DeepEqual(got, fields) {
		t.Errorf("SplitFields(JoinFields(x)) = %v, want %v", got, fields)
	}
}

func TestSplitFieldsEmpty(t *testing.T) {
	if got := SplitFields(""); got != nil {
		t.Errorf("SplitFields(\"\") = %v, want nil", got)
	}
}

func TestSplitJoinItems(t *testing.T) {
	ids := []string{"a-1", "b-2", "c-3"}
	joined := JoinItems(ids)
	if want := "a-1,b-2,c-3"; joined != want {
		t.Fatalf("JoinItems = %q, want %q", joined, want)
	}
	if got := SplitItems(joined); !reflect.DeepEqual(got, ids) {
		t.Errorf("SplitItems(JoinItems(x)) = %v, want %v", got, ids)
	}
}

func TestNewItemIDIsUnique(t *testing.T) {
	a := NewItemID()
	b := NewItemID()
	if a == b {
		t.Error("two calls to NewItemID produced the same id")
	}
}

func TestUnionAppendIdempotent(t *testing.T) {
	names := []string{"a", "b"}
	names = UnionAppend(names, "a")
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Errorf("UnionAppend re-added an existing name: %v", names)
	}
	names = UnionAppend(names, "c")
	if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("UnionAppend didn't append a new name: %v", names)
	}
}

func TestRemove(t *testing.T) {
	names := []string{"a", "b", "c", "b"}
	got := Remove(names, []string{"b"})
	if !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Remove = %v, want [a c]", got)
	}
}

func TestContains(t *testing.T) {
	if !Contains([]string{"a", "b"}, "b") {
		t.Error("expected Contains to find b")
	}
	if Contains([]string{"a", "b"}, "c") {
		t.Error("expected Contains not to find c")
	}
}
