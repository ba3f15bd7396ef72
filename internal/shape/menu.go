package shape

import "github.com/goldenage-community/goldenage-backend/internal/xmltree"

// UnknownDate is reported for menus without a usable date attribute.
const UnknownDate = "unknown"

// MenuView is the client shape of a menu document.
type MenuView struct {
	Date  string `json:"date" yaml:"date"`
	Meals Meals  `json:"meals" yaml:"meals"`
}

// Meals holds whichever meals the document declares.
type Meals struct {
	Breakfast *Breakfast `json:"breakfast,omitempty" yaml:"breakfast,omitempty"`
	Lunch     *Course    `json:"lunch,omitempty" yaml:"lunch,omitempty"`
	Dinner    *Course    `json:"dinner,omitempty" yaml:"dinner,omitempty"`
}

type Breakfast struct {
	MainDishes []string `json:"mainDishes" yaml:"mainDishes"`
	Sides      []string `json:"sides" yaml:"sides"`
	Drinks     []string `json:"drinks" yaml:"drinks"`
}

type Course struct {
	MainDishes []string `json:"mainDishes" yaml:"mainDishes"`
	Sides      []string `json:"sides" yaml:"sides"`
	Desserts   []string `json:"desserts" yaml:"desserts"`
}

// Menu converts a parsed menu document into its client shape. A missing or
// foreign root yields {date: "unknown", meals: {}}.
func Menu(root *xmltree.Element) MenuView {
	if root == nil || root.Name != RootMenu {
		return MenuView{Date: UnknownDate}
	}

	view := MenuView{Date: root.AttrOr("date", UnknownDate)}
	meals := root.Child("meals")
	if meals == nil {
		return view
	}

	if b := meals.Child("breakfast"); b != nil {
		view.Meals.Breakfast = &Breakfast{
			MainDishes: dishes(b.Child("mainDishes"), "dish"),
			Sides:      dishes(b.Child("sides"), "dish"),
			Drinks:     dishes(b.Child("drinks"), "drink", "dish"),
		}
	}
	if l := meals.Child("lunch"); l != nil {
		view.Meals.Lunch = course(l)
	}
	if d := meals.Child("dinner"); d != nil {
		view.Meals.Dinner = course(d)
	}
	return view
}

func course(meal *xmltree.Element) *Course {
	return &Course{
		MainDishes: dishes(meal.Child("mainDishes"), "dish"),
		Sides:      dishes(meal.Child("sides"), "dish"),
		Desserts:   dishes(meal.Child("desserts"), "dish"),
	}
}

// dishes collects the text of every leaf under category whose tag is one of
// names; the first name that has any members wins.
func dishes(category *xmltree.Element, names ...string) []string {
	out := []string{}
	for _, n := range names {
		for _, leaf := range xmltree.ToSequence(category.ChildGroup(n)) {
			if txt := leaf.Text(); txt != "" {
				out = append(out, txt)
			}
		}
		if len(out) > 0 {
			break
		}
	}
	return out
}
