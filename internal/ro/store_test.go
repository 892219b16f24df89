package ro

import "testing"

func TestStorePutAndGet(t *testing.T) {
	s := NewStore()
	s.Put(KindInterface, Def{"id": "i1", "type": TypeInterface, "name": "IInt"})

	e, ok := s.Get("i1")
	if !ok {
		t.Fatal("Get(i1) not found")
	}
	if e.Kind != KindInterface {
		t.Errorf("Kind = %q, want %q", e.Kind, KindInterface)
	}
	if !s.Has("i1") || s.Has("missing") {
		t.Error("Has reports wrong membership")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStoreIgnoresDefinitionsWithoutID(t *testing.T) {
	s := NewStore()
	s.Put(KindNode, Def{"name": "anonymous"})
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestStoreInterfaceByName(t *testing.T) {
	s := NewStore()
	s.Put(KindInterface, Def{"id": "i1", "name": "IInt"})
	s.Put(KindNode, Def{"id": "n1", "name": "IStr"})

	def, ok := s.InterfaceByName("IInt")
	if !ok || def.ID() != "i1" {
		t.Errorf("InterfaceByName(IInt) = %v, %v", def, ok)
	}

	// Names are matched per kind: a node called IStr is not an interface.
	if _, ok := s.InterfaceByName("IStr"); ok {
		t.Error("InterfaceByName(IStr) matched a node")
	}
}

func TestStoreNodeByDesc(t *testing.T) {
	s := NewStore()
	s.Put(KindNode, Def{"id": "n1", "name": "openalea.math: plus"})

	def, ok := s.NodeByDesc("openalea.math", "plus")
	if !ok || def.ID() != "n1" {
		t.Errorf("NodeByDesc = %v, %v", def, ok)
	}
	if _, ok := s.NodeByDesc("openalea.math", "minus"); ok {
		t.Error("NodeByDesc(minus) should not match")
	}
}

func TestStoreDuplicateNamesResolveByID(t *testing.T) {
	s := NewStore()
	s.Put(KindInterface, Def{"id": "b", "name": "IInt"})
	s.Put(KindInterface, Def{"id": "a", "name": "IInt"})

	for i := 0; i < 5; i++ {
		def, _ := s.InterfaceByName("IInt")
		if def.ID() != "a" {
			t.Fatalf("InterfaceByName returned %q, want lowest id", def.ID())
		}
	}
}
