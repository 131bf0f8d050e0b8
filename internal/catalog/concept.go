package catalog

// Category groups concepts on the table. The set is closed.
type Category string

const (
	CategoryBasic     Category = "basic"
	CategoryMechanism Category = "mechanism"
	CategoryRisk      Category = "risk"
	CategoryStrategy  Category = "strategy"
	CategoryAsset     Category = "asset"
)

// AllCategories returns all categories in legend order.
func AllCategories() []Category {
	return []Category{
		CategoryBasic,
		CategoryMechanism,
		CategoryRisk,
		CategoryStrategy,
		CategoryAsset,
	}
}

// CategoryDisplayName returns the label shown in the legend.
func CategoryDisplayName(c Category) string {
	switch c {
	case CategoryBasic:
		return "基础概念"
	case CategoryMechanism:
		return "交易机制"
	case CategoryRisk:
		return "风险管理"
	case CategoryStrategy:
		return "交易策略"
	case CategoryAsset:
		return "实物与合约"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Concept is a single element of the futures table. Concepts are created
// once at process start and never mutated.
type Concept struct {
	Ordinal   int
	Symbol    string
	Name      string
	Category  Category
	ShortDesc string
}
