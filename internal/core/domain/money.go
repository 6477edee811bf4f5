package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// weiPerEth is 10^18 as a decimal exponent. All on-chain amounts are wei
// (*big.Int); fiat prices and exchange rates are decimal. The conversion
// between the two happens exactly once, at payment creation.
const weiExponent = 18

// EthToWei converts an ETH-denominated decimal amount to wei, truncating
// anything below 1 wei.
func EthToWei(eth decimal.Decimal) *big.Int {
	return eth.Shift(weiExponent).Truncate(0).BigInt()
}

// WeiToEth converts a wei amount to its ETH decimal representation.
func WeiToEth(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, -weiExponent)
}

// FormatEth renders a wei amount as a human-readable ETH string.
func FormatEth(wei *big.Int) string {
	return WeiToEth(wei).String()
}
