package cart

// Pure state transitions over the line item slice. Each returns a fresh
// slice and leaves its input untouched, so the rules stay testable without a
// storage dependency.

func applyAdd(items []LineItem, ref ProductRef) []LineItem {
	next := append([]LineItem(nil), items...)
	for i, item := range next {
		if item.ID != ref.ID {
			continue
		}
		if item.Quantity+1 <= item.Stock {
			next[i].Quantity++
		}
		return next
	}
	return append(next, LineItem{
		ID:       ref.ID,
		Name:     ref.Name,
		Image:    ref.Image,
		Price:    ref.Price,
		Quantity: 1,
		Stock:    ref.Stock,
	})
}

func applySetQuantity(items []LineItem, id string, quantity int) []LineItem {
	next := append([]LineItem(nil), items...)
	for i, item := range next {
		if item.ID != id {
			continue
		}
		clamped := quantity
		if clamped > item.Stock {
			clamped = item.Stock
		}
		if clamped < 1 {
			return append(next[:i], next[i+1:]...)
		}
		next[i].Quantity = clamped
		return next
	}
	return next
}

func applyRemove(items []LineItem, id string) []LineItem {
	next := append([]LineItem(nil), items...)
	for i, item := range next {
		if item.ID == id {
			return append(next[:i], next[i+1:]...)
		}
	}
	return next
}
