package postgres

import (
	"fmt"
	"math/big"
)

// Wei amounts are stored as base-10 TEXT columns: Postgres NUMERIC would also
// hold them, but TEXT round-trips through *big.Int without driver-side
// float conversion surprises.

func parseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid wei amount: %q", s)
	}
	return v, nil
}

func weiString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
