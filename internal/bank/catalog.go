package bank

import (
	"fmt"
	"sync"
)

// legacyKeys maps the camelCase keys older front ends used to address
// categories onto category ids.
var legacyKeys = map[string]string{
	"tellingTime":          "telling-time",
	"writingPractice":      "writing-practice",
	"matchingArticles":     "matching-articles",
	"subjectVerbAgreement": "subject-verb",
	"freeWriting":          "free-writing",
}

// Catalog is the in-memory question bank. Categories keep insertion order.
type Catalog struct {
	mu    sync.RWMutex
	order []string
	cats  map[string]Category
}

func NewCatalog() *Catalog {
	return &Catalog{cats: map[string]Category{}}
}

// Get returns the category with the given id or legacy key.
func (c *Catalog) Get(id string) (Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cat, ok := c.cats[id]; ok {
		return cat, nil
	}
	if alias, ok := legacyKeys[id]; ok {
		if cat, ok := c.cats[alias]; ok {
			return cat, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrCategoryNotFound, id)
}

func (c *Catalog) List() []Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Summary, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.cats[id].Summary())
	}
	return out
}

// Put validates c and adds it, replacing any category with the same id
// in place.
func (c *Catalog) Put(cat Category) error {
	if err := Validate(cat); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cats[cat.ID]; !ok {
		c.order = append(c.order, cat.ID)
	}
	c.cats[cat.ID] = cat
	return nil
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
