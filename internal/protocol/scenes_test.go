package protocol

import "testing"

func TestSceneLookup(t *testing.T) {
	tests := []struct {
		id   int
		name string
	}{
		{1, "Ocean"},
		{11, "Warm White"},
		{32, "Steampunk"},
		{RhythmSceneID, "Rhythm"},
	}

	for _, tt := range tests {
		s, ok := SceneByID(tt.id)
		if !ok || s.Name != tt.name {
			t.Errorf("SceneByID(%d) = %+v, %v; want %s", tt.id, s, ok, tt.name)
		}
		byName, ok := SceneByName("  " + tt.name + " ")
		if !ok || byName.ID != tt.id {
			t.Errorf("SceneByName(%q) = %+v, %v; want id %d", tt.name, byName, ok, tt.id)
		}
	}

	if _, ok := SceneByID(0); ok {
		t.Error("scene 0 should not exist")
	}
	if _, ok := SceneByName("disco"); ok {
		t.Error("unknown scene name should not resolve")
	}
}

func TestScenesOrdered(t *testing.T) {
	all := Scenes()
	if len(all) != 33 {
		t.Fatalf("len(Scenes()) = %d, want 33", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Fatalf("scenes not ordered at %d", i)
		}
	}
	all[0].Name = "changed"
	if SceneName(1) != "Ocean" {
		t.Error("Scenes() must return a copy")
	}
}
