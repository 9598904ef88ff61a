//go:build !race

package store

func passwordHashCost() int {
	return 14
}
