package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Discounts() DiscountRepository
	Products() ProductRepository
}
