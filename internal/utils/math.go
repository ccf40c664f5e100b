package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// SecureRandomInt returns a random integer between min and max (inclusive) using crypto/rand
func SecureRandomInt(min, max int) (int, error) {
	if min > max {
		return 0, fmt.Errorf("min cannot be greater than max")
	}
	diff := big.NewInt(int64(max - min + 1))
	n, err := rand.Int(rand.Reader, diff)
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + min, nil
}

// SecureShuffle performs a Fisher-Yates shuffle of n elements using crypto
// randomness, calling swap for each exchange. Used for static winner placement
// when pre-generating batch codes.
func SecureShuffle(n int, swap func(i, j int)) error {
	for i := n - 1; i > 0; i-- {
		j, err := SecureRandomInt(0, i)
		if err != nil {
			return err
		}
		swap(i, j)
	}
	return nil
}
