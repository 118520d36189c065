package classify

import "fmt"

// Category is the closed set of labels a support query can be routed under.
type Category int

const (
	CategoryEmpty Category = iota
	CategoryJoke
	CategoryMulti
	CategoryBilling
	CategoryNetwork
	CategoryService
	CategoryKnowledge
	CategoryOther
)

var categoryNames = map[Category]string{
	CategoryEmpty:     "EMPTY",
	CategoryJoke:      "JOKE",
	CategoryMulti:     "MULTI",
	CategoryBilling:   "BILLING",
	CategoryNetwork:   "NETWORK",
	CategoryService:   "SERVICE",
	CategoryKnowledge: "KNOWLEDGE",
	CategoryOther:     "OTHER",
}

var nameToCategory = map[string]Category{
	"EMPTY":     CategoryEmpty,
	"JOKE":      CategoryJoke,
	"MULTI":     CategoryMulti,
	"BILLING":   CategoryBilling,
	"NETWORK":   CategoryNetwork,
	"SERVICE":   CategoryService,
	"KNOWLEDGE": CategoryKnowledge,
	"OTHER":     CategoryOther,
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", c)
}

func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

func ParseCategory(s string) (Category, bool) {
	c, ok := nameToCategory[s]
	return c, ok
}

// ValidCategories returns every category in routing order.
func ValidCategories() []Category {
	return []Category{
		CategoryEmpty,
		CategoryJoke,
		CategoryMulti,
		CategoryBilling,
		CategoryNetwork,
		CategoryService,
		CategoryKnowledge,
		CategoryOther,
	}
}
