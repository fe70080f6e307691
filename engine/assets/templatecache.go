package assets

// TemplateSeed is the fixed seed template builders receive, so every
// instance of a defName shares one deterministic template regardless of
// where it spawns.
const TemplateSeed uint64 = 0xC0FFEE

// TemplateBuilder produces a host-defined template (a tessellated mesh, a
// sprite, whatever the renderer consumes) for a defName. The core never
// interprets the result; it only caches it.
type TemplateBuilder func(defName string, seed uint64) any

// TemplateCache memoizes one template per defName. Populated on first
// request, never invalidated: templates are derived purely from the
// definition and the fixed TemplateSeed, so they can't go stale.
type TemplateCache struct {
	build     TemplateBuilder
	templates map[string]any
}

// NewTemplateCache constructs a cache around a builder.
func NewTemplateCache(build TemplateBuilder) *TemplateCache {
	return &TemplateCache{build: build, templates: make(map[string]any)}
}

// Get returns the cached template for defName, building it on first use.
func (c *TemplateCache) Get(defName string) any {
	if t, ok := c.templates[defName]; ok {
		return t
	}
	t := c.build(defName, TemplateSeed)
	c.templates[defName] = t
	return t
}

// Len returns how many templates have been built.
func (c *TemplateCache) Len() int { return len(c.templates) }
