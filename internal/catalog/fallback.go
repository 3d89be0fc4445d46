package catalog

// FallbackProducts is the deterministic fixture served when the external
// catalog is unreachable or times out.
func FallbackProducts() []Product {
	return []Product{
		{ID: 1, Title: "Fallback Product A", Image: "https://via.placeholder.com/150", Price: 99.99, Rating: Rating{Rate: 4.5, Count: 100}},
		{ID: 2, Title: "Fallback Product B", Image: "https://via.placeholder.com/150", Price: 79.99, Rating: Rating{Rate: 4.0, Count: 50}},
		{ID: 3, Title: "Fallback Product C", Image: "https://via.placeholder.com/150", Price: 49.99, Rating: Rating{Rate: 4.2, Count: 75}},
	}
}

func FallbackProduct() Product {
	return FallbackProducts()[0]
}
