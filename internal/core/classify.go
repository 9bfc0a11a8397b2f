package core

import "strings"

// GroupOther is the catch-all group key present in both tables. Categories
// matching no keyword are appended to its bucket.
const GroupOther = "other"

// CategoryGroup is one entry of a classification table: a display bucket
// with the ordered keywords that route category names into it.
type CategoryGroup struct {
	Key      string
	Title    string
	Color    string
	Keywords []string
}

// GroupBucket is a group together with the categories assigned to it, in
// input order.
type GroupBucket struct {
	Group      CategoryGroup
	Categories []Category
}

// ExpenseGroups is the classification table for expense categories.
//
// Order is semantic: matching scans groups top to bottom and keywords left
// to right, and the first hit wins. A name that would match keywords in
// two groups always lands in the earlier one.
var ExpenseGroups = []CategoryGroup{
	{
		Key:      "housing",
		Title:    "Housing & Utilities",
		Color:    "#3b82f6",
		Keywords: []string{"rent", "mortgage", "utilit", "electric", "water", "gas", "internet", "phone", "home", "house"},
	},
	{
		Key:      "food",
		Title:    "Food & Dining",
		Color:    "#f97316",
		Keywords: []string{"grocer", "food", "restaurant", "dining", "coffee", "snack", "lunch", "dinner", "meal"},
	},
	{
		Key:      "transport",
		Title:    "Transportation",
		Color:    "#eab308",
		Keywords: []string{"transport", "fuel", "petrol", "car", "taxi", "bus", "train", "parking", "commute"},
	},
	{
		Key:      "health",
		Title:    "Health & Fitness",
		Color:    "#22c55e",
		Keywords: []string{"health", "medical", "doctor", "pharmacy", "gym", "fitness", "sport", "insurance"},
	},
	{
		Key:      "entertainment",
		Title:    "Entertainment & Leisure",
		Color:    "#8b5cf6",
		Keywords: []string{"entertainment", "movie", "game", "hobby", "travel", "holiday", "subscription", "stream", "music"},
	},
	{
		Key:      "shopping",
		Title:    "Shopping",
		Color:    "#ec4899",
		Keywords: []string{"shopping", "clothes", "clothing", "fashion", "shoe", "electronics", "gadget", "gift"},
	},
	{
		Key:      "education",
		Title:    "Education",
		Color:    "#06b6d4",
		Keywords: []string{"education", "school", "course", "book", "tuition", "learning"},
	},
	{
		Key:   GroupOther,
		Title: "Other",
		Color: "#6b7280",
	},
}

// IncomeGroups is the classification table for income categories.
var IncomeGroups = []CategoryGroup{
	{
		Key:      "salary",
		Title:    "Salary & Wages",
		Color:    "#16a34a",
		Keywords: []string{"salary", "wage", "payroll", "bonus", "overtime"},
	},
	{
		Key:      "business",
		Title:    "Business & Freelance",
		Color:    "#0891b2",
		Keywords: []string{"business", "freelance", "consult", "side", "commission"},
	},
	{
		Key:      "investment",
		Title:    "Investments",
		Color:    "#d97706",
		Keywords: []string{"invest", "dividend", "interest", "stock", "crypto", "rental"},
	},
	{
		Key:   GroupOther,
		Title: "Other Income",
		Color: "#14b8a6",
	},
}

// GroupCategories partitions cats into the table's groups. Every group of
// the table is present in the result, possibly with an empty bucket;
// classification never fails, it only produces sparser results.
//
// Matching is case-insensitive substring against each group's keywords,
// first match wins. Unmatched categories are appended to the GroupOther
// bucket, so no input category is ever dropped.
func GroupCategories(cats []Category, table []CategoryGroup) []GroupBucket {
	buckets := make([]GroupBucket, len(table))
	index := make(map[string]int, len(table))
	for i, g := range table {
		buckets[i] = GroupBucket{Group: g}
		index[g.Key] = i
	}

	var ungrouped []Category
	for _, c := range cats {
		key, ok := matchGroup(c.Name, table)
		if !ok {
			ungrouped = append(ungrouped, c)
			continue
		}
		i := index[key]
		buckets[i].Categories = append(buckets[i].Categories, c)
	}

	if i, ok := index[GroupOther]; ok {
		buckets[i].Categories = append(buckets[i].Categories, ungrouped...)
	}
	return buckets
}

// matchGroup scans groups in table order and each group's keywords in
// order, returning the key of the first group whose keyword occurs in the
// case-folded name.
func matchGroup(name string, table []CategoryGroup) (string, bool) {
	folded := strings.ToLower(name)
	for _, g := range table {
		for _, kw := range g.Keywords {
			if strings.Contains(folded, strings.ToLower(kw)) {
				return g.Key, true
			}
		}
	}
	return "", false
}

// GroupTableFor returns the classification table for a transaction type.
func GroupTableFor(t TransactionType) []CategoryGroup {
	if t == Income {
		return IncomeGroups
	}
	return ExpenseGroups
}
