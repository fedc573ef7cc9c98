package domain

import "math/big"

// payout.go — cálculo pari-mutuel puro.
//
// Los ganadores se reparten el pool perdedor en proporción a su stake,
// menos la comisión de la casa. Todo en aritmética entera: un único
// floor al final, productos intermedios en 128+ bits para que
// stake·losingPool·(100-fee) nunca desborde. El residuo del floor
// (como máximo 1 unidad por ganador) queda en la tesorería como dust.

// Payout devuelve lo que cobra un ganador: su stake íntegro más su
// parte proporcional del pool perdedor tras la comisión.
//
//	payout = stake + ⌊stake·losingPool·(100-fee) / (winningPool·100)⌋
//
// Si winningPool es 0 no hay ganadores que reclamen y el resultado es 0
// (el pool perdedor queda sin repartir; decisión explícita, no un error).
func Payout(stake, winningPool, losingPool uint64, feePercent uint8) uint64 {
	if winningPool == 0 {
		return 0
	}
	if feePercent > 100 {
		feePercent = 100
	}

	num := new(big.Int).SetUint64(stake)
	num.Mul(num, new(big.Int).SetUint64(losingPool))
	num.Mul(num, big.NewInt(int64(100-feePercent)))

	den := new(big.Int).SetUint64(winningPool)
	den.Mul(den, big.NewInt(100))

	profit := num.Quo(num, den)
	return stake + profit.Uint64()
}

// DistributablePool devuelve la cota superior de la suma de todos los
// pagos de una ronda: el pool ganador íntegro más el perdedor tras la
// comisión. La suma real queda por debajo por el redondeo entero.
func DistributablePool(winningPool, losingPool uint64, feePercent uint8) uint64 {
	if feePercent > 100 {
		feePercent = 100
	}
	cut := new(big.Int).SetUint64(losingPool)
	cut.Mul(cut, big.NewInt(int64(100-feePercent)))
	cut.Quo(cut, big.NewInt(100))
	return winningPool + cut.Uint64()
}
