package models

// Category is the closed set of expense categories. Budgets and expenses
// share this domain but are not referentially coupled: an expense may exist
// in a category with no budget and vice versa.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryUtilities     Category = "utilities"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryTravel        Category = "travel"
	CategorySubscriptions Category = "subscriptions"
	CategoryOther         Category = "other"
)

// Categories returns the full enumeration in declaration order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryEntertainment,
		CategoryUtilities,
		CategoryShopping,
		CategoryHealth,
		CategoryTravel,
		CategorySubscriptions,
		CategoryOther,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryEntertainment,
		CategoryUtilities, CategoryShopping, CategoryHealth,
		CategoryTravel, CategorySubscriptions, CategoryOther:
		return true
	}
	return false
}

// ParseCategory converts user-supplied text into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", NewValidationError("category", "unknown category "+s)
	}
	return c, nil
}
