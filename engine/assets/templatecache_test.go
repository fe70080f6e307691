package assets

import "testing"

func TestTemplateCacheBuildsOncePerName(t *testing.T) {
	builds := 0
	cache := NewTemplateCache(func(defName string, seed uint64) any {
		builds++
		if seed != TemplateSeed {
			t.Errorf("builder got seed %d, want the fixed TemplateSeed", seed)
		}
		return defName + "-mesh"
	})

	a1 := cache.Get("BerryBush")
	a2 := cache.Get("BerryBush")
	cache.Get("Rock")

	if builds != 2 {
		t.Fatalf("builder ran %d times, want 2 (one per defName)", builds)
	}
	if a1 != a2 {
		t.Error("repeated Get returned different templates")
	}
	if cache.Len() != 2 {
		t.Errorf("cache holds %d templates, want 2", cache.Len())
	}
}
