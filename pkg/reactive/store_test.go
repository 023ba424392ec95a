package reactive

import "testing"

func TestStoreWrapAndAccess(t *testing.T) {
	s := Wrap(map[string]any{"name": "ada", "age": 36}).(*Store)

	if s.Get("name") != "ada" {
		t.Errorf("expected ada, got %v", s.Get("name"))
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 keys, got %d", s.Len())
	}

	s.Set("name", "grace")
	if s.Get("name") != "grace" {
		t.Errorf("expected grace, got %v", s.Get("name"))
	}
}

func TestStoreKeyTracking(t *testing.T) {
	s := Wrap(map[string]any{"a": 1, "b": 2}).(*Store)
	runs := 0

	CreateEffect(func() {
		_ = s.Get("a")
		runs++
	})

	// Unrelated key: no re-run
	s.Set("b", 20)
	if runs != 1 {
		t.Errorf("write to unread key should not trigger, got %d runs", runs)
	}

	s.Set("a", 10)
	if runs != 2 {
		t.Errorf("expected re-run on tracked key, got %d runs", runs)
	}

	// Same value: no re-run
	s.Set("a", 10)
	if runs != 2 {
		t.Errorf("same value should not trigger, got %d runs", runs)
	}
}

func TestStoreAbsentKeyTracking(t *testing.T) {
	s := Wrap(map[string]any{}).(*Store)
	runs := 0
	var last any

	CreateEffect(func() {
		last = s.Get("missing")
		runs++
	})

	if last != nil {
		t.Errorf("absent key should read nil, got %v", last)
	}

	// Adding the key later must re-run the reader
	s.Set("missing", 42)
	if runs != 2 || last != 42 {
		t.Errorf("expected re-run with 42, runs=%d last=%v", runs, last)
	}
}

func TestStoreEnumerationTracking(t *testing.T) {
	s := Wrap(map[string]any{"a": 1}).(*Store)
	runs := 0
	var keys []string

	CreateEffect(func() {
		keys = s.Keys()
		runs++
	})

	// Updating an existing key does not change the key set
	s.Set("a", 2)
	if runs != 1 {
		t.Errorf("value update should not re-run enumerator, got %d runs", runs)
	}

	s.Set("b", 3)
	if runs != 2 {
		t.Errorf("addition should re-run enumerator, got %d runs", runs)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("expected sorted [a b], got %v", keys)
	}

	s.Delete("a")
	if runs != 3 {
		t.Errorf("deletion should re-run enumerator, got %d runs", runs)
	}
	if len(keys) != 1 || keys[0] != "b" {
		t.Errorf("expected [b], got %v", keys)
	}
}

func TestStoreDelete(t *testing.T) {
	s := Wrap(map[string]any{"a": 1}).(*Store)
	runs := 0

	CreateEffect(func() {
		_ = s.Has("a")
		runs++
	})

	s.Delete("a")
	if runs != 2 {
		t.Errorf("deletion should re-run Has reader, got %d runs", runs)
	}

	// Deleting an absent key is a no-op
	s.Delete("a")
	if runs != 2 {
		t.Errorf("absent-key delete should not trigger, got %d runs", runs)
	}
}

func TestStoreHasTracksAddition(t *testing.T) {
	s := Wrap(map[string]any{}).(*Store)
	var present bool

	CreateEffect(func() {
		present = s.Has("flag")
	})

	if present {
		t.Fatal("expected flag absent")
	}

	s.Set("flag", true)
	if !present {
		t.Error("Has reader should re-run on addition")
	}
}

func TestStoreNestedLazyWrapping(t *testing.T) {
	s := Wrap(map[string]any{
		"user": map[string]any{"name": "ada"},
	}).(*Store)

	user, ok := s.Get("user").(*Store)
	if !ok {
		t.Fatalf("nested map should wrap to *Store, got %T", s.Get("user"))
	}

	// Identity-stable: same raw structure, same container
	again := s.Get("user").(*Store)
	if user != again {
		t.Error("repeated reads should return the same container")
	}

	runs := 0
	var name any
	CreateEffect(func() {
		name = s.Get("user").(*Store).Get("name")
		runs++
	})

	user.Set("name", "grace")
	if runs != 2 || name != "grace" {
		t.Errorf("nested mutation should re-run reader, runs=%d name=%v", runs, name)
	}
}

func TestStoreUnwrapsContainerValues(t *testing.T) {
	child := Wrap(map[string]any{"x": 1}).(*Store)
	s := Wrap(map[string]any{}).(*Store)

	// Storing a container stores its raw structure; reading wraps back
	// to the same container.
	s.Set("child", child)
	got, ok := s.Get("child").(*Store)
	if !ok {
		t.Fatalf("expected *Store, got %T", s.Get("child"))
	}
	if got != child {
		t.Error("expected identity-stable container round-trip")
	}
}
