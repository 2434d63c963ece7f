// Package category defines the seven fixed guest-experience categories and
// their display attributes.
//
// Category names are join keys between the report, dashboard and
// competitor documents, so matching is exact: a name either is one of the
// canonical strings or it is Unknown.
package category

// Category is one of the fixed guest-experience dimensions.
type Category int

const (
	Unknown Category = iota
	Location
	Cleanliness
	RoomComfort
	Amenities
	FoodBeverage
	Service
	Value
)

// All lists the categories in canonical report order.
var All = []Category{
	Location,
	Cleanliness,
	RoomComfort,
	Amenities,
	FoodBeverage,
	Service,
	Value,
}

var names = map[Category]string{
	Location:     "Location & Neighbourhood",
	Cleanliness:  "Cleanliness",
	RoomComfort:  "Room Comfort",
	Amenities:    "Hotel Amenities & Atmosphere",
	FoodBeverage: "Food & Beverage",
	Service:      "Guest Experience & Service",
	Value:        "Value for Money",
}

var byName = func() map[string]Category {
	m := make(map[string]Category, len(names))
	for c, n := range names {
		m[n] = c
	}
	return m
}()

// String returns the canonical document name of the category.
func (c Category) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "Unknown"
}

// Parse resolves a canonical category name.
func Parse(name string) (Category, bool) {
	c, ok := byName[name]
	return c, ok
}

// Meta holds display-only attributes for a category.
type Meta struct {
	Code       string
	ColorClass string
	TextClass  string
	Icon       string
	Short      string
	Hex        string
}

var metas = map[Category]Meta{
	Location:     {Code: "loc", ColorClass: "c-blue", TextClass: "t-blue", Icon: "ic-loc", Short: "Location", Hex: "#5C86C8"},
	Cleanliness:  {Code: "cln", ColorClass: "c-teal", TextClass: "t-teal", Icon: "ic-cln", Short: "Cleanliness", Hex: "#2BA6A0"},
	RoomComfort:  {Code: "room", ColorClass: "c-purple", TextClass: "t-purple", Icon: "ic-bed", Short: "Room", Hex: "#8A63C9"},
	Amenities:    {Code: "amen", ColorClass: "c-blue", TextClass: "t-blue", Icon: "ic-gym", Short: "Amenities", Hex: "#5C86C8"},
	FoodBeverage: {Code: "fnb", ColorClass: "c-pink", TextClass: "t-pink", Icon: "ic-fnb", Short: "F & B", Hex: "#D9607E"},
	Service:      {Code: "srv", ColorClass: "c-orange", TextClass: "t-orange", Icon: "ic-srv", Short: "Service", Hex: "#E88B3A"},
	Value:        {Code: "val", ColorClass: "c-gold", TextClass: "t-gold", Icon: "ic-val", Short: "Value", Hex: "#C9A227"},
}

// Meta returns the display attributes of c, or the generic attributes
// labelled "Unknown" for values outside the fixed set.
func (c Category) Meta() Meta {
	if m, ok := metas[c]; ok {
		return m
	}
	return generic(c.String())
}

// Lookup returns the display attributes for a category name. Names outside
// the canonical set get generic attributes carrying the name itself as the
// short label.
func Lookup(name string) Meta {
	if c, ok := Parse(name); ok {
		return metas[c]
	}
	return generic(name)
}

func generic(label string) Meta {
	return Meta{
		Code:       "gen",
		ColorClass: "c-blue",
		TextClass:  "t-blue",
		Short:      label,
		Hex:        "#5C86C8",
	}
}
