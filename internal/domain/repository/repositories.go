package repository

// Repositories agrupa los repositorios atados a una misma unidad de trabajo (pool o transacción).
type Repositories struct {
	Products    ProductRepository
	Variations  VariationRepository
	Movements   StockMovementRepository
	Alerts      StockAlertRepository
	Customers   CustomerRepository
	Sales       SaleRepository
	Payments    PaymentRepository
	Returns     ReturnRepository
	Discounts   DiscountRepository
	Orders      OrderRepository
	Conversions ConversionRepository
}
