package product

// QueryProductsModel represents filter parameters for querying products.
type QueryProductsModel struct {
	CategoryIds  []int64
	FeaturedOnly bool
	Limit        int
}
